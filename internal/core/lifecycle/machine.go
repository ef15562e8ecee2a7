// Package lifecycle 提供节点运行状态机
//
// 状态只能按以下路径迁移：
//
//	Stopped → Starting → Running → Stopping → Stopped
//	Starting → Stopped（启动失败回滚）
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dep2p/go-tasknode/pkg/lib/log"
)

var logger = log.Logger("core/lifecycle")

// ============================================================================
//                              状态定义
// ============================================================================

// State 节点运行状态
type State int

const (
	// Stopped 未运行（初始状态）
	Stopped State = iota
	// Starting 启动中
	Starting
	// Running 运行中
	Running
	// Stopping 停止中
	Stopping
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrInvalidTransition 非法状态迁移
var ErrInvalidTransition = errors.New("invalid state transition")

var allowed = map[State][]State{
	Stopped:  {Starting},
	Starting: {Running, Stopped},
	Running:  {Stopping},
	Stopping: {Stopped},
}

func canTransition(from, to State) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ============================================================================
//                              Machine
// ============================================================================

// Machine 节点状态机
type Machine struct {
	name string

	mu       sync.Mutex
	state    State
	changed  chan struct{}
	onChange []func(old, new State)
}

// NewMachine 创建处于 Stopped 的状态机
func NewMachine(name string) *Machine {
	return &Machine{name: name, changed: make(chan struct{})}
}

// State 返回当前状态
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Transition 从 from 迁移到 to
//
// 当前状态不是 from 或迁移不被允许时返回 ErrInvalidTransition。
// 回调异步执行。
func (m *Machine) Transition(from, to State) error {
	m.mu.Lock()
	if m.state != from || !canTransition(from, to) {
		cur := m.state
		m.mu.Unlock()
		return fmt.Errorf("%w: %s → %s (current %s)", ErrInvalidTransition, from, to, cur)
	}
	m.state = to
	close(m.changed)
	m.changed = make(chan struct{})
	callbacks := append([]func(old, new State){}, m.onChange...)
	m.mu.Unlock()

	logger.Debug("状态迁移", "machine", m.name, "from", from, "to", to)

	if len(callbacks) > 0 {
		go func() {
			for _, cb := range callbacks {
				cb(from, to)
			}
		}()
	}
	return nil
}

// WaitFor 阻塞直到进入目标状态或 ctx 结束
func (m *Machine) WaitFor(ctx context.Context, target State) error {
	for {
		m.mu.Lock()
		if m.state == target {
			m.mu.Unlock()
			return nil
		}
		ch := m.changed
		m.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// OnChange 注册状态变化回调
func (m *Machine) OnChange(cb func(old, new State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, cb)
}

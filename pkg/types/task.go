package types

import (
	"bytes"
	"net/netip"
	"time"
)

// ============================================================================
//                              Task - 排队任务
// ============================================================================

// Task 一个排队的工作单元
//
// Tag 在队列中唯一；Source 为最初接收该任务的节点地址。
type Task struct {
	// Priority 优先级
	Priority QueuePriority

	// CreatedAt 创建时间（UTC）
	CreatedAt time.Time

	// Tag 任务标签
	Tag string

	// State 当前状态
	State QueuedProcessState

	// Payload 任务负载
	Payload []byte

	// Source 来源节点
	Source netip.Addr

	// LocalOnly 为 true 时该任务只是副本，不在本节点执行也不再转发
	LocalOnly bool
}

// Validate 校验任务字段
func (t Task) Validate() error {
	if t.Tag == "" {
		return ErrEmptyTag
	}
	if len(t.Payload) == 0 {
		return ErrEmptyPayload
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if !t.State.IsValid() {
		return ErrInvalidState
	}
	return nil
}

// Clone 返回深拷贝
func (t Task) Clone() Task {
	t.Payload = bytes.Clone(t.Payload)
	return t
}

// Before 判断 t 是否应先于 o 出队
//
// 优先级高者在前，同优先级时创建时间早者在前。
func (t Task) Before(o Task) bool {
	if t.Priority != o.Priority {
		return t.Priority > o.Priority
	}
	return t.CreatedAt.Before(o.CreatedAt)
}

// ============================================================================
//                              ResultEntry - 任务结果
// ============================================================================

// ResultEntry 结果缓存中的一项
type ResultEntry struct {
	// Payload 执行结果
	Payload []byte

	// Source 产出结果的节点
	Source netip.Addr

	// Error 执行失败时的错误描述，成功时为空
	Error string
}

// Failed 结果是否表示执行失败
func (r ResultEntry) Failed() bool {
	return r.Error != ""
}

// Clone 返回深拷贝
func (r ResultEntry) Clone() ResultEntry {
	r.Payload = bytes.Clone(r.Payload)
	return r
}

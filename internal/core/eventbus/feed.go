package eventbus

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-tasknode/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrClosed 注册表已关闭
	ErrClosed = errors.New("eventbus closed")
	// ErrNilObserver 订阅者为空
	ErrNilObserver = errors.New("nil observer")
)

// backlogWarnStep 邮箱积压每增长这么多条告警一次
const backlogWarnStep = 1024

// ============================================================================
// Observer
// ============================================================================

// Observer 订阅者
type Observer[T any] interface {
	// OnNext 投递一个事件
	OnNext(T)
	// OnCompleted 订阅结束，之后不会再有 OnNext
	OnCompleted()
}

// ObserverFunc 把函数适配为 Observer，OnCompleted 为空操作
type ObserverFunc[T any] func(T)

// OnNext 实现 Observer
func (f ObserverFunc[T]) OnNext(v T) { f(v) }

// OnCompleted 实现 Observer
func (f ObserverFunc[T]) OnCompleted() {}

// ============================================================================
// Feed 实现
// ============================================================================

// Feed 类型化的监听者注册表
type Feed[T any] struct {
	name string

	mu   sync.RWMutex
	subs []*Subscription[T]

	closed atomic.Bool
}

// NewFeed 创建注册表，name 仅用于日志
func NewFeed[T any](name string) *Feed[T] {
	return &Feed[T]{name: name}
}

// Subscribe 注册订阅者
func (f *Feed[T]) Subscribe(o Observer[T]) (*Subscription[T], error) {
	if o == nil {
		return nil, ErrNilObserver
	}

	s := &Subscription[T]{
		feed: f,
		obs:  o,
		done: make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)

	f.mu.Lock()
	if f.closed.Load() {
		f.mu.Unlock()
		return nil, ErrClosed
	}
	f.subs = append(f.subs, s)
	f.mu.Unlock()

	go s.run()
	return s, nil
}

// Publish 向所有订阅者投递事件，返回接收事件的订阅者数量
//
// Publish 只写入邮箱，不等待回调执行。
func (f *Feed[T]) Publish(v T) int {
	if f.closed.Load() {
		return 0
	}

	f.mu.RLock()
	subs := make([]*Subscription[T], len(f.subs))
	copy(subs, f.subs)
	f.mu.RUnlock()

	n := 0
	for _, s := range subs {
		if s.push(v) {
			n++
		}
	}
	return n
}

// Len 返回当前订阅者数量
func (f *Feed[T]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// Close 关闭注册表并结束所有订阅
//
// 已进入邮箱的事件仍会被投递。
func (f *Feed[T]) Close() {
	if !f.closed.CompareAndSwap(false, true) {
		return
	}

	f.mu.RLock()
	subs := make([]*Subscription[T], len(f.subs))
	copy(subs, f.subs)
	f.mu.RUnlock()

	for _, s := range subs {
		s.Close()
	}
}

// remove 移除订阅
func (f *Feed[T]) remove(sub *Subscription[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, s := range f.subs {
		if s == sub {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return
		}
	}
}

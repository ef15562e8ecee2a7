package pool

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Option 池配置选项
type Option[T any] func(*Pool[T])

// WithReset 设置归还时的重置函数，返回值替代原资源入池
func WithReset[T any](reset func(T) T) Option[T] {
	return func(p *Pool[T]) { p.reset = reset }
}

// WithNilCheck 设置 nil 判定函数
//
// 默认只识别接口层面的 nil，指针、切片等类型应提供自己的判定。
func WithNilCheck[T any](isNil func(T) bool) Option[T] {
	return func(p *Pool[T]) { p.isNil = isNil }
}

// Pool 有界资源池
//
// 资源以栈的方式存取，最近归还的资源最先被取出。
type Pool[T any] struct {
	capacity int
	sem      *semaphore.Weighted

	mu    sync.Mutex
	items []T

	reset func(T) T
	isNil func(T) bool
}

// New 创建容量为 capacity 的池
//
// fill 不为 nil 时预先填满 capacity 个资源，否则池初始为空。
func New[T any](capacity int, fill func() T, opts ...Option[T]) (*Pool[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	p := &Pool[T]{
		capacity: capacity,
		sem:      semaphore.NewWeighted(int64(capacity)),
		items:    make([]T, 0, capacity),
		isNil:    func(v T) bool { return any(v) == nil },
	}
	for _, opt := range opts {
		opt(p)
	}

	// 信号量计数表示可取资源数，初始为 0
	p.sem.TryAcquire(int64(capacity))

	if fill != nil {
		for i := 0; i < capacity; i++ {
			if err := p.Insert(fill()); err != nil {
				return nil, fmt.Errorf("fill pool: %w", err)
			}
		}
	}
	return p, nil
}

// Take 取出一个资源
//
// 池为空时阻塞直到有资源归还或 ctx 结束。
func (p *Pool[T]) Take(ctx context.Context) (T, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		var zero T
		return zero, err
	}
	return p.pop(), nil
}

// TryTake 非阻塞地取出一个资源
func (p *Pool[T]) TryTake() (T, bool) {
	if !p.sem.TryAcquire(1) {
		var zero T
		return zero, false
	}
	return p.pop(), true
}

func (p *Pool[T]) pop() T {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.items)
	if n == 0 {
		panic(ErrInvariant)
	}
	item := p.items[n-1]
	var zero T
	p.items[n-1] = zero
	p.items = p.items[:n-1]
	return item
}

// Insert 归还一个资源并唤醒一个等待者
func (p *Pool[T]) Insert(item T) error {
	if p.isNil(item) {
		return ErrNilItem
	}
	if p.reset != nil {
		item = p.reset(item)
	}

	p.mu.Lock()
	if len(p.items) >= p.capacity {
		p.mu.Unlock()
		return ErrOverCapacity
	}
	p.items = append(p.items, item)
	p.mu.Unlock()

	p.sem.Release(1)
	return nil
}

// Len 返回池内可用资源数量
func (p *Pool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Cap 返回池容量
func (p *Pool[T]) Cap() int {
	return p.capacity
}

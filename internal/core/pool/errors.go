package pool

import "errors"

var (
	// ErrNilItem 归还了 nil 资源
	ErrNilItem = errors.New("pool: nil item")

	// ErrOverCapacity 归还后超出容量
	ErrOverCapacity = errors.New("pool: over capacity")

	// ErrInvariant 信号量与池内资源数量不一致
	ErrInvariant = errors.New("pool: semaphore acquired but no item present")

	// ErrInvalidCapacity 容量非法
	ErrInvalidCapacity = errors.New("pool: capacity must be positive")
)

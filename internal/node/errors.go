package node

import "errors"

var (
	// ErrNotRunning 节点未运行
	ErrNotRunning = errors.New("node not running")

	// ErrDuplicateTag 标签已在队列或结果缓存中
	ErrDuplicateTag = errors.New("tag already in use")
)

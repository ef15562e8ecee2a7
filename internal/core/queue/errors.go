package queue

import "errors"

var (
	// ErrDuplicateTag 标签已在队列中
	ErrDuplicateTag = errors.New("queue: duplicate tag")

	// ErrEmpty 没有可出队的任务
	ErrEmpty = errors.New("queue: no runnable task")

	// ErrNotFound 标签不存在
	ErrNotFound = errors.New("queue: tag not found")
)

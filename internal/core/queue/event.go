package queue

import "github.com/dep2p/go-tasknode/pkg/types"

// EventKind 队列事件类型
type EventKind int

const (
	// EventEnqueued 任务入队
	EventEnqueued EventKind = iota + 1
	// EventStateChanged 任务状态变更
	EventStateChanged
	// EventCompleted 任务执行完毕并移出队列
	EventCompleted
)

// String 返回事件类型的字符串表示
func (k EventKind) String() string {
	switch k {
	case EventEnqueued:
		return "enqueued"
	case EventStateChanged:
		return "state_changed"
	case EventCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Event 队列事件，Task 为变更后的副本
type Event struct {
	Kind EventKind
	Task types.Task
}

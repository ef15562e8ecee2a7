package interfaces

import "github.com/dep2p/go-tasknode/pkg/types"

// TaskQueueView 工作队列只读视图
type TaskQueueView interface {
	// Len 队列长度
	Len() int

	// Contains 标签是否在队列中
	Contains(tag string) bool

	// PeekOrDefault 下一个可运行任务，没有时返回零值
	PeekOrDefault() types.Task

	// Snapshot 按出队顺序排列的全部任务
	Snapshot() []types.Task
}

// ResultStoreView 结果缓存只读视图
type ResultStoreView interface {
	// Read 读取结果
	Read(tag string) (types.ResultEntry, error)

	// Contains 是否存在结果
	Contains(tag string) bool

	// Len 结果数量
	Len() int

	// Keys 所有标签
	Keys() []string
}

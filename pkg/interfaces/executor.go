package interfaces

import "context"

// Executor 任务执行器
//
// 节点从队列取出任务后调用 Execute，返回值写入结果缓存。
// 返回错误时结果以失败状态写入，客户端查询得到 Failed。
type Executor interface {
	// Name 执行器名称
	Name() string

	// Execute 执行任务负载
	Execute(ctx context.Context, payload []byte) ([]byte, error)
}

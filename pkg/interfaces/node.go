package interfaces

import (
	"context"
	"net/netip"
)

// Node 任务节点门面接口
type Node interface {
	// Start 启动节点
	Start(ctx context.Context) error

	// Stop 停止节点
	Stop(ctx context.Context) error

	// State 生命周期状态的字符串表示
	State() string

	// Self 本节点节点间端点
	Self() netip.AddrPort

	// KnownNodes 已知节点地址快照
	KnownNodes() []netip.Addr

	// ConnectTo 加入对端节点所在的集群并拉取其数据
	ConnectTo(ctx context.Context, endpoint netip.AddrPort) error

	// Queue 工作队列只读视图
	Queue() TaskQueueView

	// Results 结果缓存只读视图
	Results() ResultStoreView
}

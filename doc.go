// Package tasknode 提供点对点复制的任务处理节点
//
// 每个节点接收客户端提交的任务，放入按优先级排序的工作队列，
// 由本地 worker 执行后把结果写入结果缓存。队列与缓存的每一次变更
// 都复制到全部已知节点，因此客户端可以向任意节点查询结果。
//
// # 快速开始
//
//	import "github.com/dep2p/go-tasknode"
//
//	node, err := tasknode.Start(ctx,
//	    tasknode.WithListenAddr("10.0.0.11"),
//	    tasknode.WithDiscovery(true),
//	    tasknode.WithExecutorName("digest"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer node.Close()
//
// 客户端使用 pkg/client：
//
//	c, _ := client.Dial(ctx, node.ClientAddr().String())
//	tag, _ := c.Submit(ctx, []byte("work"), types.PriorityHigh)
//	resp, _ := c.Wait(ctx, tag)
//
// # 节点发现
//
// 节点通过两种方式互相认识：
//
//   - UDP 广播：启用 WithDiscovery 后，上线与下线时广播一条消息
//   - 已知节点：WithKnownPeers 列出的节点在启动时主动连接
//
// 新节点连上已有节点后，从对端拉取全量缓存与全量队列。
//
// # 文件组织
//
//   - node.go    - Node 门面与生命周期
//   - options.go - 配置选项
//   - presets.go - 预设配置
//   - fx.go      - Fx 模块装配
//   - errors.go  - 公共错误
package tasknode

// Package tcp 实现带长度前缀分帧的 TCP 套接字
//
// 每条消息在线上的格式为 uint32 小端长度前缀加负载，
// 接收端使用 framing.ConnState 状态机组装，任意拆分与粘包均可处理。
//
// # 角色
//
//   - RoleClient：客户端监听，统计已连接客户端数量
//   - RoleInterNode：节点间监听
//   - RoleConnector：只拨号不监听，用于主动连接其他节点
//
// # 对端注册表
//
// 每个 Socket 维护 远端 IP → 连接 的注册表。注册只在缺失时写入，
// 断开时只有注册表仍指向该连接才会移除，自身地址永远不会被注册。
//
// # 使用示例
//
//	s, err := tcp.New(tcp.RoleInterNode, cfg, tcp.HandlerFuncs{
//	    Data: func(in tcp.Inbound) { ... },
//	})
//	if err := s.Start(); err != nil { ... }
//	defer s.Stop()
//
//	s.SendTo(peerIP, payload)
//
// # 并发模型
//
// 每条连接一个接收 goroutine，同一连接上的消息按到达顺序分发。
// 写入由连接级互斥锁串行化。
package tcp

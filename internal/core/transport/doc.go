// Package transport 组装节点使用的全部套接字
//
// 一个节点持有四个套接字：
//
//   - 客户端监听（tcp.RoleClient，默认端口 270）
//   - 节点间监听（tcp.RoleInterNode，默认端口 280）
//   - 节点间拨号（tcp.RoleConnector，绑定节点间地址的 IP）
//   - 发现广播（udp，默认端口 275，可选）
//
// 子包：
//
//   - framing：长度前缀分帧与接收状态机
//   - tcp：分帧 TCP 套接字与对端注册表
//   - udp：UDP 广播套接字
//   - sockopt：SO_REUSEADDR / SO_BROADCAST
//
// # Fx 模块集成
//
//	app := fx.New(
//	    transport.Module(),
//	    fx.Invoke(func(cfg transport.Config) {
//	        m, err := transport.NewManager(cfg, handlers, reporter)
//	        ...
//	    }),
//	)
package transport

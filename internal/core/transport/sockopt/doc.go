// Package sockopt 提供监听和拨号时使用的套接字选项
//
// 函数签名与 net.ListenConfig.Control 一致：
//
//	lc := net.ListenConfig{Control: sockopt.ReuseAddr}
//	ln, err := lc.Listen(ctx, "tcp", "0.0.0.0:280")
package sockopt

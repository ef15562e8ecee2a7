// Package client 提供任务节点客户端协议的 Go 客户端
//
// 一个 Client 持有一条到节点客户端端口的 TCP 连接，请求与应答一一对应：
//
//	c, err := client.Dial(ctx, "127.0.0.1:8080")
//	tag, err := c.Submit(ctx, []byte("payload"), types.PriorityHigh)
//	resp, err := c.Wait(ctx, tag)
//
// 连接空闲时可调用 KeepAlive 防止被对端回收。
package client

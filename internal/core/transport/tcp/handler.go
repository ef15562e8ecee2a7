package tcp

import (
	"net/netip"
)

// Inbound 一条完整的入站消息
type Inbound struct {
	// Payload 去掉长度前缀后的负载，归接收方所有
	Payload []byte

	// Source 远端地址
	Source netip.AddrPort

	// Conn 消息来源连接，可用于在同一连接上应答
	Conn *Conn
}

// Handler 套接字事件处理器
//
// 回调在连接的接收 goroutine 中同步执行，耗时操作应自行异步处理。
type Handler interface {
	// HandleData 收到一条完整消息
	HandleData(in Inbound)

	// HandlePeerConnected 主动拨号的连接已建立并注册
	HandlePeerConnected(remote netip.AddrPort)
}

// HandlerFuncs 以函数实现 Handler，未设置的回调被忽略
type HandlerFuncs struct {
	Data          func(Inbound)
	PeerConnected func(netip.AddrPort)
}

var _ Handler = HandlerFuncs{}

// HandleData 实现 Handler
func (h HandlerFuncs) HandleData(in Inbound) {
	if h.Data != nil {
		h.Data(in)
	}
}

// HandlePeerConnected 实现 Handler
func (h HandlerFuncs) HandlePeerConnected(remote netip.AddrPort) {
	if h.PeerConnected != nil {
		h.PeerConnected(remote)
	}
}

// Reporter 流量统计接收方
//
// metrics.BandwidthCounter 实现此接口。
type Reporter interface {
	LogSentMessage(int64)
	LogRecvMessage(int64)
}

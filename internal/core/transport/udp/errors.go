package udp

import "errors"

var (
	// ErrWildcardBroadcast 广播需要具体的网卡地址
	ErrWildcardBroadcast = errors.New("broadcast requires a concrete bind address")

	// ErrNoneMessage 不能广播 BroadcastNone
	ErrNoneMessage = errors.New("cannot broadcast message type none")

	// ErrNotStarted 套接字未启动
	ErrNotStarted = errors.New("broadcast socket not started")

	// ErrSocketClosed 套接字已关闭
	ErrSocketClosed = errors.New("broadcast socket closed")

	// ErrAlreadyStarted 套接字已启动
	ErrAlreadyStarted = errors.New("broadcast socket already started")

	// ErrNoBroadcastAddr 无法确定广播目标
	ErrNoBroadcastAddr = errors.New("no broadcast address for bind interface")
)

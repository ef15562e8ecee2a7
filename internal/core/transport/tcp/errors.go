package tcp

import "errors"

var (
	// ErrSocketClosed 套接字已关闭
	ErrSocketClosed = errors.New("socket closed")

	// ErrNotStarted 套接字未启动
	ErrNotStarted = errors.New("socket not started")

	// ErrAlreadyStarted 套接字已启动
	ErrAlreadyStarted = errors.New("socket already started")

	// ErrConnectionClosed 连接已关闭
	ErrConnectionClosed = errors.New("connection closed")

	// ErrSelfConnect 拒绝连接到自身地址
	ErrSelfConnect = errors.New("refusing to connect to own address")

	// ErrInvalidEndpoint 无效的远端地址
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)

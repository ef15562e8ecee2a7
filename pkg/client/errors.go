package client

import "errors"

var (
	// ErrRejected 节点拒绝了请求
	ErrRejected = errors.New("client: request rejected")

	// ErrClosed 客户端已关闭
	ErrClosed = errors.New("client: closed")

	// ErrUnexpectedTag 应答标签与请求不一致
	ErrUnexpectedTag = errors.New("client: response tag mismatch")
)

// Package transport 组装节点使用的全部套接字
package transport

import "errors"

var (
	// ErrDiscoveryDisabled 未启用发现
	ErrDiscoveryDisabled = errors.New("discovery disabled")

	// ErrManagerClosed 管理器已关闭
	ErrManagerClosed = errors.New("transport manager closed")
)

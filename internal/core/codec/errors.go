package codec

import "errors"

var (
	// ErrInvalidMessage 消息格式错误
	ErrInvalidMessage = errors.New("codec: invalid message")

	// ErrUnknownType 消息类型超出定义范围
	ErrUnknownType = errors.New("codec: unknown message type")
)

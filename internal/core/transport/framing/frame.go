package framing

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// PrefixSize 长度前缀字节数
const PrefixSize = 4

// DefaultMaxMessageSize 默认单条消息上限
const DefaultMaxMessageSize = 16 << 20

var (
	// ErrMessageTooLarge 消息超过上限
	ErrMessageTooLarge = errors.New("framing: message too large")

	// ErrShortFrame 帧长度不足
	ErrShortFrame = errors.New("framing: short frame")
)

// Frame 为负载加上长度前缀，返回新分配的完整帧
func Frame(payload []byte) []byte {
	out := make([]byte, PrefixSize+len(payload))
	binary.LittleEndian.PutUint32(out, uint32(len(payload)))
	copy(out[PrefixSize:], payload)
	return out
}

// Unframe 从单个数据报中解析一条完整帧
//
// 数据报不足前缀长度，或实际负载短于前缀声明的长度时返回 ErrShortFrame。
// 多余的尾部字节被忽略。
func Unframe(datagram []byte) ([]byte, error) {
	if len(datagram) <= PrefixSize {
		return nil, ErrShortFrame
	}
	n := binary.LittleEndian.Uint32(datagram)
	body := datagram[PrefixSize:]
	if uint64(len(body)) < uint64(n) {
		return nil, fmt.Errorf("%w: want %d bytes, have %d", ErrShortFrame, n, len(body))
	}
	return body[:n], nil
}

// WriteFrame 将负载成帧后一次写入 w
func WriteFrame(w io.Writer, payload []byte) error {
	_, err := w.Write(Frame(payload))
	return err
}

// ReadFrame 从流中阻塞读取一条完整帧
//
// 供客户端等同步读取方使用；服务端接收循环使用 ConnState。
func ReadFrame(r io.Reader, maxSize int) ([]byte, error) {
	var prefix [PrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(prefix[:])
	if maxSize > 0 && uint64(n) > uint64(maxSize) {
		return nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, n, maxSize)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

package pool

import (
	"context"

	"github.com/dep2p/go-tasknode/internal/core/transport/framing"
)

// 默认缓冲区参数
const (
	DefaultBufferCount = 100
	DefaultBufferSize  = 2048
)

// NewBufferPool 创建 count 个 size 字节缓冲区的池
//
// 归还的缓冲区被恢复为 size 长度并清零，长度不符的缓冲区会被重新分配。
func NewBufferPool(count, size int) (*Pool[[]byte], error) {
	return New(count,
		func() []byte { return make([]byte, size) },
		WithNilCheck(func(b []byte) bool { return b == nil }),
		WithReset(func(b []byte) []byte {
			if cap(b) < size {
				return make([]byte, size)
			}
			b = b[:size]
			clear(b)
			return b
		}),
	)
}

// BufferManager 传输层资源管理器
//
// 每条 TCP 连接从中取出一个接收缓冲区和一个连接状态，断开时归还。
type BufferManager struct {
	buffers    *Pool[[]byte]
	states     *Pool[*framing.ConnState]
	bufferSize int
}

// NewBufferManager 创建资源管理器
//
// count 同时决定缓冲区与连接状态数量，即同时服务的最大连接数。
func NewBufferManager(count, size, maxMessageSize int) (*BufferManager, error) {
	if count <= 0 {
		count = DefaultBufferCount
	}
	if size <= 0 {
		size = DefaultBufferSize
	}

	buffers, err := NewBufferPool(count, size)
	if err != nil {
		return nil, err
	}
	states, err := New(count,
		func() *framing.ConnState { return framing.NewConnState(maxMessageSize) },
		WithNilCheck(func(s *framing.ConnState) bool { return s == nil }),
		WithReset(func(s *framing.ConnState) *framing.ConnState {
			s.Reset()
			return s
		}),
	)
	if err != nil {
		return nil, err
	}

	return &BufferManager{buffers: buffers, states: states, bufferSize: size}, nil
}

// TakeBuffer 取出接收缓冲区
func (m *BufferManager) TakeBuffer(ctx context.Context) ([]byte, error) {
	return m.buffers.Take(ctx)
}

// ReturnBuffer 归还接收缓冲区
func (m *BufferManager) ReturnBuffer(b []byte) error {
	return m.buffers.Insert(b)
}

// TakeState 取出连接状态
func (m *BufferManager) TakeState(ctx context.Context) (*framing.ConnState, error) {
	return m.states.Take(ctx)
}

// ReturnState 归还连接状态
func (m *BufferManager) ReturnState(s *framing.ConnState) error {
	return m.states.Insert(s)
}

// BufferSize 单个缓冲区大小
func (m *BufferManager) BufferSize() int {
	return m.bufferSize
}

// Available 返回可用缓冲区与连接状态数量
func (m *BufferManager) Available() (buffers, states int) {
	return m.buffers.Len(), m.states.Len()
}

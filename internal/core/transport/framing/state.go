package framing

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// ConnState 单条连接的接收组装状态
//
// ConnState 不是并发安全的，每条连接由唯一的接收 goroutine 驱动。
// 实例从池中取出，断开时 Reset 后归还。
type ConnState struct {
	// Remote 远端地址
	Remote netip.AddrPort

	maxSize int

	prefix  [PrefixSize]byte
	prefixN int

	expected int
	received int
	body     []byte
	inBody   bool
}

// NewConnState 创建接收状态，maxSize <= 0 时使用默认上限
func NewConnState(maxSize int) *ConnState {
	s := &ConnState{}
	s.SetMaxSize(maxSize)
	return s
}

// SetMaxSize 设置单条消息上限
func (s *ConnState) SetMaxSize(maxSize int) {
	if maxSize <= 0 {
		maxSize = DefaultMaxMessageSize
	}
	s.maxSize = maxSize
}

// Expected 当前消息声明的负载长度
func (s *ConnState) Expected() int { return s.expected }

// Received 当前消息已接收的负载字节数
func (s *ConnState) Received() int { return s.received }

// Pending 是否有未完成的消息
func (s *ConnState) Pending() bool {
	return s.prefixN > 0 || s.inBody
}

// Reset 清空状态，回到 WAIT_PREFIX
func (s *ConnState) Reset() {
	s.Remote = netip.AddrPort{}
	s.resetMessage()
}

func (s *ConnState) resetMessage() {
	s.prefix = [PrefixSize]byte{}
	s.prefixN = 0
	s.expected = 0
	s.received = 0
	s.body = nil
	s.inBody = false
}

// Feed 推进状态机
//
// chunk 可以是任意长度的一次读取结果。每组装出一条完整消息就调用一次
// dispatch，传入的切片归 dispatch 所有。dispatch 返回错误或消息超过上限时
// 停止处理并返回错误，此时连接应被断开。
func (s *ConnState) Feed(chunk []byte, dispatch func(payload []byte) error) error {
	for len(chunk) > 0 {
		if !s.inBody {
			n := copy(s.prefix[s.prefixN:], chunk)
			s.prefixN += n
			chunk = chunk[n:]
			if s.prefixN < PrefixSize {
				return nil
			}

			length := binary.LittleEndian.Uint32(s.prefix[:])
			if uint64(length) > uint64(s.maxSize) {
				s.resetMessage()
				return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, length, s.maxSize)
			}
			s.expected = int(length)
			s.received = 0
			s.body = make([]byte, s.expected)
			s.inBody = true
		}

		n := copy(s.body[s.received:], chunk)
		s.received += n
		chunk = chunk[n:]

		if s.received < s.expected {
			return nil
		}

		payload := s.body
		s.resetMessage()
		if err := dispatch(payload); err != nil {
			return err
		}
	}
	return nil
}

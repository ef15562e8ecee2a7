package framing

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s *ConnState, chunks ...[]byte) [][]byte {
	t.Helper()
	var out [][]byte
	for _, c := range chunks {
		require.NoError(t, s.Feed(c, func(p []byte) error {
			out = append(out, p)
			return nil
		}))
	}
	return out
}

func TestFrame_Prefix(t *testing.T) {
	f := Frame([]byte("hello"))
	require.Len(t, f, 9)
	assert.Equal(t, uint32(5), binary.LittleEndian.Uint32(f))
	assert.Equal(t, "hello", string(f[PrefixSize:]))
}

// TestConnState_SingleWrite 测试一次读取包含完整消息
func TestConnState_SingleWrite(t *testing.T) {
	s := NewConnState(0)
	got := collect(t, s, Frame([]byte("payload")))
	require.Len(t, got, 1)
	assert.Equal(t, "payload", string(got[0]))
	assert.False(t, s.Pending())
}

// TestConnState_ByteByByte 测试前缀与负载逐字节到达
func TestConnState_ByteByByte(t *testing.T) {
	s := NewConnState(0)
	frame := Frame([]byte("split everywhere"))

	var chunks [][]byte
	for i := range frame {
		chunks = append(chunks, frame[i:i+1])
	}
	got := collect(t, s, chunks...)
	require.Len(t, got, 1)
	assert.Equal(t, "split everywhere", string(got[0]))
}

// TestConnState_RandomSplits 测试任意切分后的重组结果与原始一致
func TestConnState_RandomSplits(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	var stream []byte
	var want [][]byte
	for i := 0; i < 50; i++ {
		p := make([]byte, r.Intn(3000))
		r.Read(p)
		want = append(want, p)
		stream = append(stream, Frame(p)...)
	}

	s := NewConnState(0)
	var chunks [][]byte
	for len(stream) > 0 {
		n := 1 + r.Intn(700)
		if n > len(stream) {
			n = len(stream)
		}
		chunks = append(chunks, stream[:n])
		stream = stream[n:]
	}

	got := collect(t, s, chunks...)
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, bytes.Equal(want[i], got[i]), "message %d", i)
	}
}

// TestConnState_MergedFrames 测试一次读取包含多条消息
func TestConnState_MergedFrames(t *testing.T) {
	merged := append(Frame([]byte("a")), Frame([]byte("bb"))...)
	merged = append(merged, Frame([]byte("ccc"))[:5]...)

	s := NewConnState(0)
	got := collect(t, s, merged)
	require.Len(t, got, 2)
	assert.Equal(t, "a", string(got[0]))
	assert.Equal(t, "bb", string(got[1]))
	assert.True(t, s.Pending())
	assert.Equal(t, 3, s.Expected())
	assert.Equal(t, 1, s.Received())

	got = collect(t, s, []byte("cc"))
	require.Len(t, got, 1)
	assert.Equal(t, "ccc", string(got[0]))
}

func TestConnState_EmptyMessage(t *testing.T) {
	s := NewConnState(0)
	got := collect(t, s, Frame(nil))
	require.Len(t, got, 1)
	assert.Empty(t, got[0])
}

func TestConnState_TooLarge(t *testing.T) {
	s := NewConnState(8)
	err := s.Feed(Frame(make([]byte, 9)), func([]byte) error { return nil })
	assert.ErrorIs(t, err, ErrMessageTooLarge)
	assert.False(t, s.Pending())
}

func TestConnState_DispatchError(t *testing.T) {
	boom := errors.New("boom")
	s := NewConnState(0)
	calls := 0
	err := s.Feed(append(Frame([]byte("x")), Frame([]byte("y"))...), func([]byte) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestConnState_Reset(t *testing.T) {
	s := NewConnState(0)
	collect(t, s, Frame([]byte("abcdef"))[:6])
	require.True(t, s.Pending())
	s.Reset()
	assert.False(t, s.Pending())
	assert.Zero(t, s.Expected())
}

func TestUnframe(t *testing.T) {
	p, err := Unframe(Frame([]byte("dgram")))
	require.NoError(t, err)
	assert.Equal(t, "dgram", string(p))

	_, err = Unframe([]byte{1, 0, 0, 0})
	assert.ErrorIs(t, err, ErrShortFrame)

	_, err = Unframe(Frame([]byte("dgram"))[:7])
	assert.ErrorIs(t, err, ErrShortFrame)
}

func TestReadWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte("one")))
	require.NoError(t, WriteFrame(&buf, []byte("two")))

	p, err := ReadFrame(&buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "one", string(p))
	p, err = ReadFrame(&buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "two", string(p))

	var big bytes.Buffer
	require.NoError(t, WriteFrame(&big, make([]byte, 10)))
	_, err = ReadFrame(&big, 4)
	assert.ErrorIs(t, err, ErrMessageTooLarge)
}

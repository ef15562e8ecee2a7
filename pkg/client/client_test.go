package client

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-tasknode/internal/core/codec"
	"github.com/dep2p/go-tasknode/internal/core/transport/framing"
	"github.com/dep2p/go-tasknode/pkg/types"
)

// fakeNode 按固定规则应答的单连接服务端
func fakeNode(t *testing.T, respond func(types.ClientMessage) (types.ClientResponse, bool)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		c := codec.New()
		for {
			data, err := framing.ReadFrame(conn, 0)
			if err != nil {
				return
			}
			msg, err := c.DecodeClient(data)
			if err != nil {
				return
			}
			resp, ok := respond(msg)
			if !ok {
				continue
			}
			if err := framing.WriteFrame(conn, c.EncodeResponse(resp)); err != nil {
				return
			}
		}
	}()
	return ln.Addr().String()
}

func TestClient_SubmitAndWait(t *testing.T) {
	var fetches atomic.Int32
	addr := fakeNode(t, func(m types.ClientMessage) (types.ClientResponse, bool) {
		switch m.Type {
		case types.ClientNewTask:
			return types.ClientResponse{Tag: m.Tag, Status: types.StatusAccepted}, true
		case types.ClientFetchResult:
			if fetches.Add(1) < 3 {
				return types.ClientResponse{Tag: m.Tag, Status: types.StatusPending}, true
			}
			return types.ClientResponse{Tag: m.Tag, Status: types.StatusOK, Payload: []byte("done")}, true
		}
		return types.ClientResponse{}, false
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, addr, WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)
	defer c.Close()

	tag, err := c.Submit(ctx, []byte("work"), types.PriorityHigh)
	require.NoError(t, err)
	assert.NotEmpty(t, tag)

	// 保活没有应答，不应打乱后续请求
	require.NoError(t, c.KeepAlive())

	resp, err := c.Wait(ctx, tag)
	require.NoError(t, err)
	assert.Equal(t, types.StatusOK, resp.Status)
	assert.Equal(t, []byte("done"), resp.Payload)
	assert.Equal(t, int32(3), fetches.Load())
}

func TestClient_Rejected(t *testing.T) {
	addr := fakeNode(t, func(m types.ClientMessage) (types.ClientResponse, bool) {
		return types.ClientResponse{Tag: m.Tag, Status: types.StatusRejected, Error: "duplicate"}, true
	})

	c, err := Dial(context.Background(), addr)
	require.NoError(t, err)
	defer c.Close()

	err = c.SubmitTag(context.Background(), "t1", []byte("x"), types.PriorityNormal)
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestClient_TagMismatch(t *testing.T) {
	addr := fakeNode(t, func(m types.ClientMessage) (types.ClientResponse, bool) {
		return types.ClientResponse{Tag: "other", Status: types.StatusOK}, true
	})

	c, err := Dial(context.Background(), addr)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Fetch(context.Background(), "mine")
	assert.ErrorIs(t, err, ErrUnexpectedTag)
}

func TestClient_ContextCancelUnblocks(t *testing.T) {
	// 永不应答
	addr := fakeNode(t, func(types.ClientMessage) (types.ClientResponse, bool) { return types.ClientResponse{}, false })

	c, err := Dial(context.Background(), addr)
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = c.Fetch(ctx, "t1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Closed(t *testing.T) {
	addr := fakeNode(t, func(types.ClientMessage) (types.ClientResponse, bool) { return types.ClientResponse{}, false })

	c, err := Dial(context.Background(), addr)
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err = c.Fetch(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, c.KeepAlive(), ErrClosed)
}

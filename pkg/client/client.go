package client

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dep2p/go-tasknode/internal/core/codec"
	"github.com/dep2p/go-tasknode/internal/core/transport/framing"
	"github.com/dep2p/go-tasknode/pkg/lib/log"
	"github.com/dep2p/go-tasknode/pkg/types"
)

var logger = log.Logger("client")

const (
	// DefaultPollInterval Wait 的默认轮询间隔
	DefaultPollInterval = 100 * time.Millisecond

	defaultDialTimeout = 10 * time.Second
)

// Option 客户端选项
type Option func(*Client)

// WithMaxMessageSize 设置应答的最大长度
func WithMaxMessageSize(n int) Option {
	return func(c *Client) { c.maxSize = n }
}

// WithPollInterval 设置 Wait 的轮询间隔
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.poll = d }
}

// Client 节点客户端，方法可并发调用
type Client struct {
	codec   *codec.Codec
	maxSize int
	poll    time.Duration

	mu     sync.Mutex
	conn   net.Conn
	closed bool
}

// Dial 连接节点的客户端端口
func Dial(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	d := net.Dialer{Timeout: defaultDialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	c := &Client{
		codec:   codec.New(),
		maxSize: framing.DefaultMaxMessageSize,
		poll:    DefaultPollInterval,
		conn:    conn,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Submit 以随机标签提交任务，返回标签
func (c *Client) Submit(ctx context.Context, payload []byte, priority types.QueuePriority) (string, error) {
	tag := uuid.NewString()
	if err := c.SubmitTag(ctx, tag, payload, priority); err != nil {
		return "", err
	}
	return tag, nil
}

// SubmitTag 以指定标签提交任务
func (c *Client) SubmitTag(ctx context.Context, tag string, payload []byte, priority types.QueuePriority) error {
	resp, err := c.roundTrip(ctx, types.ClientMessage{
		Type:     types.ClientNewTask,
		Tag:      tag,
		Payload:  payload,
		Priority: priority,
	})
	if err != nil {
		return err
	}
	if resp.Status != types.StatusAccepted {
		return fmt.Errorf("%w: %s: %s", ErrRejected, resp.Status, resp.Error)
	}
	logger.Debug("任务已提交", "tag", log.TruncateTag(tag, 16))
	return nil
}

// Fetch 查询一次结果
func (c *Client) Fetch(ctx context.Context, tag string) (types.ClientResponse, error) {
	return c.roundTrip(ctx, types.ClientMessage{Type: types.ClientFetchResult, Tag: tag})
}

// Wait 轮询直到结果不再是 Pending
//
// 返回 OK、Failed 或 NotFound 应答，由调用方判断。
func (c *Client) Wait(ctx context.Context, tag string) (types.ClientResponse, error) {
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for {
		resp, err := c.Fetch(ctx, tag)
		if err != nil {
			return resp, err
		}
		if resp.Status != types.StatusPending {
			return resp, nil
		}
		select {
		case <-ctx.Done():
			return resp, ctx.Err()
		case <-ticker.C:
		}
	}
}

// KeepAlive 发送保活消息，节点不应答
func (c *Client) KeepAlive() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return framing.WriteFrame(c.conn, c.codec.EncodeClient(types.ClientMessage{Type: types.ClientTimeoutPrevention}))
}

// Close 关闭连接
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

func (c *Client) roundTrip(ctx context.Context, msg types.ClientMessage) (types.ClientResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return types.ClientResponse{}, ErrClosed
	}

	deadline, _ := ctx.Deadline()
	if err := c.conn.SetDeadline(deadline); err != nil {
		return types.ClientResponse{}, err
	}

	// ctx 取消时打断阻塞的读写
	stop := context.AfterFunc(ctx, func() { _ = c.conn.SetDeadline(time.Unix(1, 0)) })
	defer stop()

	if err := framing.WriteFrame(c.conn, c.codec.EncodeClient(msg)); err != nil {
		return types.ClientResponse{}, c.wrap(ctx, "send", err)
	}
	data, err := framing.ReadFrame(c.conn, c.maxSize)
	if err != nil {
		return types.ClientResponse{}, c.wrap(ctx, "receive", err)
	}
	resp, err := c.codec.DecodeResponse(data)
	if err != nil {
		return types.ClientResponse{}, err
	}
	if msg.Tag != "" && resp.Tag != msg.Tag {
		return resp, fmt.Errorf("%w: want %q, got %q", ErrUnexpectedTag, msg.Tag, resp.Tag)
	}
	return resp, nil
}

func (c *Client) wrap(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	// 连接期限可能先于 ctx 的计时器到期
	if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
		return fmt.Errorf("%s: %w", op, context.DeadlineExceeded)
	}
	return fmt.Errorf("%s: %w", op, err)
}

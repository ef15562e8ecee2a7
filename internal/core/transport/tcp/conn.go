package tcp

import (
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dep2p/go-tasknode/internal/core/transport/framing"
)

// Conn 一条已注册的 TCP 连接
type Conn struct {
	raw    net.Conn
	remote netip.AddrPort
	socket *Socket

	outbound bool
	opened   time.Time

	wmu    sync.Mutex
	closed atomic.Bool
}

func newConn(raw net.Conn, remote netip.AddrPort, s *Socket, outbound bool) *Conn {
	return &Conn{
		raw:      raw,
		remote:   remote,
		socket:   s,
		outbound: outbound,
		opened:   time.Now(),
	}
}

// Remote 返回远端地址
func (c *Conn) Remote() netip.AddrPort {
	return c.remote
}

// Outbound 是否为主动拨号建立的连接
func (c *Conn) Outbound() bool {
	return c.outbound
}

// Opened 返回连接建立时间
func (c *Conn) Opened() time.Time {
	return c.opened
}

// Send 分帧并发送一条消息
func (c *Conn) Send(payload []byte) error {
	return c.SendFrame(framing.Frame(payload))
}

// SendFrame 发送已分帧的数据
//
// 同一连接上的写入互斥，一帧不会与其他帧交错。
func (c *Conn) SendFrame(frame []byte) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if wt := c.socket.cfg.WriteTimeout; wt > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(wt))
	}
	n, err := c.raw.Write(frame)
	if n > 0 {
		c.socket.stats.recordSend(n)
	}
	if err != nil {
		return err
	}
	return nil
}

// Close 关闭连接
//
// 接收 goroutine 随之退出并完成注销与资源归还。
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.raw.Close()
}

// IsClosed 连接是否已关闭
func (c *Conn) IsClosed() bool {
	return c.closed.Load()
}

package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/dep2p/go-tasknode/internal/core/codec"
	"github.com/dep2p/go-tasknode/internal/core/pool"
	"github.com/dep2p/go-tasknode/internal/core/transport/framing"
	"github.com/dep2p/go-tasknode/internal/core/transport/sockopt"
	"github.com/dep2p/go-tasknode/pkg/lib/log"
	"github.com/dep2p/go-tasknode/pkg/types"
)

var logger = log.Logger("core/transport/udp")

// 默认数据报缓冲区参数
const (
	DefaultBufferCount = 16
	DefaultBufferSize  = 512
)

// Inbound 收到的一条发现消息（已去掉长度前缀）
type Inbound struct {
	Payload []byte
	Source  netip.AddrPort
}

// Handler 发现消息处理器
type Handler interface {
	HandleDiscovery(in Inbound)
}

// HandlerFunc 以函数实现 Handler
type HandlerFunc func(Inbound)

// HandleDiscovery 实现 Handler
func (f HandlerFunc) HandleDiscovery(in Inbound) { f(in) }

// Config 广播套接字配置
type Config struct {
	// Bind 绑定地址，端口同时是广播目标端口
	Bind netip.AddrPort

	// Broadcast 是否允许发送广播
	Broadcast bool

	// BroadcastAddr 覆盖广播目标地址，零值表示自动选择
	BroadcastAddr netip.Addr

	// ListenAny 额外在 0.0.0.0:<端口> 上接收
	//
	// Linux 不会把子网广播投递给绑定单播地址的套接字，接收广播需要通配绑定。
	ListenAny bool

	// Buffers 数据报缓冲池，为 nil 时使用默认大小新建
	Buffers *pool.Pool[[]byte]
}

// Socket UDP 广播套接字
type Socket struct {
	cfg     Config
	handler Handler
	codec   *codec.Codec
	buffers *pool.Pool[[]byte]

	mu     sync.RWMutex
	conn   *net.UDPConn
	anyRx  *net.UDPConn
	bound  netip.AddrPort
	target netip.AddrPort

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
	closed  atomic.Bool

	received atomic.Int64
	dropped  atomic.Int64
}

// New 创建广播套接字
func New(cfg Config, handler Handler) (*Socket, error) {
	if !cfg.Bind.Addr().IsValid() {
		return nil, fmt.Errorf("invalid bind address %s", cfg.Bind)
	}
	if handler == nil {
		handler = HandlerFunc(func(Inbound) {})
	}
	buffers := cfg.Buffers
	if buffers == nil {
		var err error
		buffers, err = pool.NewBufferPool(DefaultBufferCount, DefaultBufferSize)
		if err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Socket{
		cfg:     cfg,
		handler: handler,
		codec:   codec.New(),
		buffers: buffers,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start 绑定并开始接收
//
// 启用广播而绑定地址为通配地址时立即失败。
func (s *Socket) Start() error {
	if s.cfg.Broadcast && s.cfg.Bind.Addr().IsUnspecified() {
		return ErrWildcardBroadcast
	}
	if s.closed.Load() {
		return ErrSocketClosed
	}
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	lc := net.ListenConfig{Control: sockopt.Broadcast}
	pc, err := lc.ListenPacket(s.ctx, "udp4", s.cfg.Bind.String())
	if err != nil {
		s.started.Store(false)
		return fmt.Errorf("listen udp %s: %w", s.cfg.Bind, err)
	}
	conn := pc.(*net.UDPConn)

	bound := s.cfg.Bind
	if ua, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		ap := ua.AddrPort()
		bound = netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
	}

	target := netip.AddrPort{}
	if s.cfg.Broadcast {
		ip, err := s.broadcastTarget()
		if err != nil {
			conn.Close()
			s.started.Store(false)
			return err
		}
		target = netip.AddrPortFrom(ip, bound.Port())
	}

	var anyRx *net.UDPConn
	if s.cfg.ListenAny && !bound.Addr().IsUnspecified() {
		anyRx, err = s.listenAny(lc, bound.Port())
		if err != nil {
			conn.Close()
			s.started.Store(false)
			return err
		}
	}

	s.mu.Lock()
	s.conn = conn
	s.anyRx = anyRx
	s.bound = bound
	s.target = target
	s.mu.Unlock()

	s.wg.Add(1)
	go s.receiveLoop(conn)
	if anyRx != nil {
		s.wg.Add(1)
		go s.receiveLoop(anyRx)
	}

	logger.Info("广播套接字已启动", "addr", bound, "target", target, "listenAny", anyRx != nil)
	return nil
}

// listenAny 在通配地址的同一端口上打开只收不发的套接字
func (s *Socket) listenAny(lc net.ListenConfig, port uint16) (*net.UDPConn, error) {
	addr := netip.AddrPortFrom(netip.IPv4Unspecified(), port)
	pc, err := lc.ListenPacket(s.ctx, "udp4", addr.String())
	if err != nil {
		return nil, fmt.Errorf("listen udp %s: %w", addr, err)
	}
	return pc.(*net.UDPConn), nil
}

// Addr 返回实际绑定地址
func (s *Socket) Addr() netip.AddrPort {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bound.IsValid() {
		return s.bound
	}
	return s.cfg.Bind
}

// Target 返回广播目标
func (s *Socket) Target() netip.AddrPort {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target
}

// Started 是否已成功启动
func (s *Socket) Started() bool {
	return s.started.Load() && !s.closed.Load()
}

// Stop 停止套接字，幂等
func (s *Socket) Stop() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.cancel()

	s.mu.Lock()
	conns := []*net.UDPConn{s.conn, s.anyRx}
	s.conn, s.anyRx = nil, nil
	s.mu.Unlock()

	var err error
	for _, conn := range conns {
		if conn == nil {
			continue
		}
		if cerr := conn.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = multierr.Append(err, cerr)
		}
	}
	s.wg.Wait()
	logger.Info("广播套接字已停止", "received", s.received.Load(), "dropped", s.dropped.Load())
	return err
}

// SendBroadcastMessage 广播一条发现消息
//
// self 为消息中携带的发送方地址，接收方据此连接节点间端口。
func (s *Socket) SendBroadcastMessage(t types.BroadcastMessageType, self netip.AddrPort) error {
	if t == types.BroadcastNone {
		return ErrNoneMessage
	}
	if s.closed.Load() {
		return ErrSocketClosed
	}

	s.mu.RLock()
	conn, target := s.conn, s.target
	s.mu.RUnlock()
	if conn == nil {
		return ErrNotStarted
	}
	if !target.IsValid() {
		return fmt.Errorf("%w: broadcasting disabled", ErrNoBroadcastAddr)
	}

	frame := framing.Frame(s.codec.EncodeDiscovery(types.DiscoveryMessage{Type: t, Endpoint: self}))
	if _, err := conn.WriteToUDPAddrPort(frame, target); err != nil {
		return fmt.Errorf("broadcast %s: %w", t, err)
	}
	logger.Debug("已发送广播", "type", t, "target", target)
	return nil
}

// broadcastTarget 选择广播目标地址
func (s *Socket) broadcastTarget() (netip.Addr, error) {
	if s.cfg.BroadcastAddr.IsValid() {
		return s.cfg.BroadcastAddr, nil
	}
	bindIP := s.cfg.Bind.Addr().Unmap()
	if !bindIP.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %s", ErrNoBroadcastAddr, bindIP)
	}
	if ip, ok := subnetBroadcast(bindIP); ok {
		return ip, nil
	}
	return netip.AddrFrom4([4]byte{255, 255, 255, 255}), nil
}

// subnetBroadcast 查找绑定地址所在网卡的子网广播地址
func subnetBroadcast(ip netip.Addr) (netip.Addr, bool) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return netip.Addr{}, false
	}
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			cur, ok := netip.AddrFromSlice(ipnet.IP)
			if !ok || cur.Unmap() != ip {
				continue
			}
			mask := ipnet.Mask
			if len(mask) == net.IPv6len {
				mask = mask[12:]
			}
			if len(mask) != net.IPv4len {
				return netip.Addr{}, false
			}
			b := ip.As4()
			for i := range b {
				b[i] |= ^mask[i]
			}
			return netip.AddrFrom4(b), true
		}
	}
	return netip.Addr{}, false
}

// ============================================================================
//                              接收
// ============================================================================

func (s *Socket) receiveLoop(conn *net.UDPConn) {
	defer s.wg.Done()

	self := s.cfg.Bind.Addr().Unmap()
	for {
		buf, err := s.buffers.Take(s.ctx)
		if err != nil {
			return
		}
		n, from, err := conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			_ = s.buffers.Insert(buf)
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Warn("接收数据报失败", "err", err)
			continue
		}
		s.handle(buf[:n], netip.AddrPortFrom(from.Addr().Unmap(), from.Port()), self)
		_ = s.buffers.Insert(buf)
	}
}

func (s *Socket) handle(datagram []byte, from netip.AddrPort, self netip.Addr) {
	if from.Addr() == self {
		s.dropped.Add(1)
		return
	}
	body, err := framing.Unframe(datagram)
	if err != nil {
		s.dropped.Add(1)
		logger.Debug("丢弃无效数据报", "from", from, "len", len(datagram), "err", err)
		return
	}
	if s.closed.Load() {
		return
	}
	s.received.Add(1)
	s.handler.HandleDiscovery(Inbound{Payload: append([]byte(nil), body...), Source: from})
}

// Stats 返回已接收与已丢弃的数据报数量
func (s *Socket) Stats() (received, dropped int64) {
	return s.received.Load(), s.dropped.Load()
}

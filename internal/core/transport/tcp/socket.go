package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/dep2p/go-tasknode/internal/core/pool"
	"github.com/dep2p/go-tasknode/internal/core/transport/framing"
	"github.com/dep2p/go-tasknode/internal/core/transport/sockopt"
	"github.com/dep2p/go-tasknode/pkg/lib/log"
)

var logger = log.Logger("core/transport/tcp")

// ============================================================================
//                              角色与配置
// ============================================================================

// Role 套接字角色
type Role int

const (
	// RoleClient 客户端监听
	RoleClient Role = iota + 1
	// RoleInterNode 节点间监听
	RoleInterNode
	// RoleConnector 节点间拨号
	RoleConnector
)

// String 返回角色名称
func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleInterNode:
		return "internode"
	case RoleConnector:
		return "connector"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Config 套接字配置
type Config struct {
	// Bind 监听地址；RoleConnector 只使用其中的 IP 作为拨号本地地址
	Bind netip.AddrPort

	// MaxMessageSize 单条消息上限
	MaxMessageSize int

	DialTimeout     time.Duration
	WriteTimeout    time.Duration
	KeepAlivePeriod time.Duration

	// NoDelay 关闭 Nagle 算法
	NoDelay bool

	// Buffers 连接资源池，为 nil 时使用默认大小新建
	Buffers *pool.BufferManager

	// Reporter 流量统计，可选
	Reporter Reporter
}

// DefaultConfig 返回默认配置
func DefaultConfig(bind netip.AddrPort) Config {
	return Config{
		Bind:            bind,
		MaxMessageSize:  framing.DefaultMaxMessageSize,
		DialTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		KeepAlivePeriod: 30 * time.Second,
		NoDelay:         true,
	}
}

// ============================================================================
//                              Socket
// ============================================================================

// Socket 分帧 TCP 套接字
type Socket struct {
	role    Role
	cfg     Config
	handler Handler
	buffers *pool.BufferManager

	mu       sync.RWMutex
	listener net.Listener
	bound    netip.AddrPort
	peers    map[netip.Addr]*Conn
	conns    map[*Conn]struct{}

	clients atomic.Int64
	stats   counters

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
	closed  atomic.Bool
}

// New 创建套接字
func New(role Role, cfg Config, handler Handler) (*Socket, error) {
	if handler == nil {
		handler = HandlerFuncs{}
	}
	if !cfg.Bind.Addr().IsValid() {
		return nil, fmt.Errorf("%w: bind address %s", ErrInvalidEndpoint, cfg.Bind)
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = framing.DefaultMaxMessageSize
	}

	buffers := cfg.Buffers
	if buffers == nil {
		var err error
		buffers, err = pool.NewBufferManager(pool.DefaultBufferCount, pool.DefaultBufferSize, cfg.MaxMessageSize)
		if err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Socket{
		role:    role,
		cfg:     cfg,
		handler: handler,
		buffers: buffers,
		peers:   make(map[netip.Addr]*Conn),
		conns:   make(map[*Conn]struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.stats.reporter = cfg.Reporter
	return s, nil
}

// Role 返回套接字角色
func (s *Socket) Role() Role {
	return s.role
}

// Start 启动套接字
//
// 监听角色绑定地址并开始接受连接；RoleConnector 只标记为可用。
func (s *Socket) Start() error {
	if s.closed.Load() {
		return ErrSocketClosed
	}
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	if s.role == RoleConnector {
		s.mu.Lock()
		s.bound = s.cfg.Bind
		s.mu.Unlock()
		logger.Debug("拨号套接字就绪", "bind", s.cfg.Bind.Addr())
		return nil
	}

	lc := net.ListenConfig{
		Control:   sockopt.ReuseAddr,
		KeepAlive: s.cfg.KeepAlivePeriod,
	}
	ln, err := lc.Listen(s.ctx, "tcp", s.cfg.Bind.String())
	if err != nil {
		s.started.Store(false)
		return fmt.Errorf("listen %s: %w", s.cfg.Bind, err)
	}

	bound := s.cfg.Bind
	if ta, ok := ln.Addr().(*net.TCPAddr); ok {
		bound = ta.AddrPort()
		bound = netip.AddrPortFrom(bound.Addr().Unmap(), bound.Port())
	}

	s.mu.Lock()
	s.listener = ln
	s.bound = bound
	s.mu.Unlock()

	s.wg.Add(1)
	go s.acceptLoop(ln)

	logger.Info("套接字开始监听", "role", s.role, "addr", bound)
	return nil
}

// Addr 返回实际绑定地址（监听端口为 0 时可获得系统分配的端口）
func (s *Socket) Addr() netip.AddrPort {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bound.IsValid() {
		return s.bound
	}
	return s.cfg.Bind
}

// Stop 停止套接字
//
// 幂等。停止接受连接，断开全部连接，等待接收 goroutine 归还池化资源。
func (s *Socket) Stop() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.cancel()

	s.mu.Lock()
	ln := s.listener
	s.listener = nil
	conns := make([]*Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	var err error
	if ln != nil {
		if cerr := ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = multierr.Append(err, cerr)
		}
	}
	for _, c := range conns {
		if cerr := c.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = multierr.Append(err, cerr)
		}
	}

	s.wg.Wait()

	logger.Info("套接字已停止", "role", s.role, "addr", s.Addr())
	return err
}

// ============================================================================
//                              连接管理
// ============================================================================

func (s *Socket) acceptLoop(ln net.Listener) {
	defer s.wg.Done()

	for {
		raw, err := ln.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Warn("接受连接失败", "role", s.role, "err", err)
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(50 * time.Millisecond):
			}
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			c, state, buf, err := s.attach(s.ctx, raw, false)
			if err != nil {
				logger.Debug("入站连接未注册", "role", s.role, "err", err)
				return
			}
			s.receive(c, state, buf)
		}()
	}
}

// ConnectTo 拨号连接到远端并注册
//
// 已存在到该 IP 的注册连接时直接返回。连接建立后触发 HandlePeerConnected。
func (s *Socket) ConnectTo(ctx context.Context, remote netip.AddrPort) error {
	if s.closed.Load() {
		return ErrSocketClosed
	}
	if !s.started.Load() {
		return ErrNotStarted
	}
	if !remote.IsValid() || remote.Addr().IsUnspecified() {
		return fmt.Errorf("%w: %s", ErrInvalidEndpoint, remote)
	}
	remote = netip.AddrPortFrom(remote.Addr().Unmap(), remote.Port())
	if s.isSelf(remote.Addr(), netip.Addr{}) {
		return fmt.Errorf("%w: %s", ErrSelfConnect, remote)
	}
	if s.Lookup(remote.Addr()) != nil {
		logger.Debug("已连接，跳过拨号", "remote", remote)
		return nil
	}

	dialer := net.Dialer{
		Timeout:   s.cfg.DialTimeout,
		KeepAlive: s.cfg.KeepAlivePeriod,
		Control:   sockopt.ReuseAddr,
	}
	if bindIP := s.cfg.Bind.Addr(); !bindIP.IsUnspecified() {
		dialer.LocalAddr = net.TCPAddrFromAddrPort(netip.AddrPortFrom(bindIP, 0))
	}

	raw, err := dialer.DialContext(ctx, "tcp", remote.String())
	if err != nil {
		return fmt.Errorf("dial %s: %w", remote, err)
	}

	c, state, buf, err := s.attach(ctx, raw, true)
	if err != nil {
		return err
	}

	logger.Debug("连接到对端", "role", s.role, "remote", c.remote)
	s.handler.HandlePeerConnected(c.remote)

	// attach 已为接收 goroutine 计入 wg
	go func() {
		defer s.wg.Done()
		s.receive(c, state, buf)
	}()
	return nil
}

// attach 取出池化资源、注册连接
//
// 成功时 wg 已经为接收循环加一（入站连接除外，由 accept 回调自己计数）。
func (s *Socket) attach(ctx context.Context, raw net.Conn, outbound bool) (*Conn, *framing.ConnState, []byte, error) {
	remote := addrPortOf(raw.RemoteAddr())
	local := addrPortOf(raw.LocalAddr())
	s.tune(raw)

	buf, err := s.buffers.TakeBuffer(ctx)
	if err != nil {
		raw.Close()
		return nil, nil, nil, err
	}
	state, err := s.buffers.TakeState(ctx)
	if err != nil {
		_ = s.buffers.ReturnBuffer(buf)
		raw.Close()
		return nil, nil, nil, err
	}
	state.Remote = remote
	state.SetMaxSize(s.cfg.MaxMessageSize)

	c := newConn(raw, remote, s, outbound)
	self := s.isSelf(remote.Addr(), local.Addr())

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		s.release(state, buf)
		raw.Close()
		return nil, nil, nil, ErrSocketClosed
	}
	s.conns[c] = struct{}{}
	if !self {
		if _, exists := s.peers[remote.Addr()]; !exists {
			s.peers[remote.Addr()] = c
		}
	}
	if outbound {
		s.wg.Add(1)
	}
	s.mu.Unlock()

	if self && outbound {
		s.detach(c)
		s.release(state, buf)
		c.Close()
		s.wg.Done()
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrSelfConnect, remote)
	}

	if s.role == RoleClient {
		s.clients.Add(1)
	}
	logger.Debug("连接已注册", "role", s.role, "remote", remote, "outbound", outbound, "self", self)
	return c, state, buf, nil
}

// receive 连接接收循环
func (s *Socket) receive(c *Conn, state *framing.ConnState, buf []byte) {
	defer func() {
		s.detach(c)
		c.Close()
		s.release(state, buf)
		if s.role == RoleClient {
			s.clients.Add(-1)
		}
		logger.Debug("连接已断开", "role", s.role, "remote", c.remote)
	}()

	dispatch := func(payload []byte) error {
		if s.closed.Load() {
			return ErrSocketClosed
		}
		s.stats.recordMessage()
		s.handler.HandleData(Inbound{Payload: payload, Source: c.remote, Conn: c})
		return nil
	}

	for {
		n, err := c.raw.Read(buf)
		if n > 0 {
			s.stats.recordRecv(n)
			if ferr := state.Feed(buf[:n], dispatch); ferr != nil {
				if !errors.Is(ferr, ErrSocketClosed) {
					logger.Warn("接收数据出错，断开连接", "role", s.role, "remote", c.remote, "err", ferr)
				}
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) && !c.IsClosed() {
				logger.Debug("读取失败", "role", s.role, "remote", c.remote, "err", err)
			}
			return
		}
		if n == 0 {
			return
		}
	}
}

// detach 从注册表移除连接，仅当注册表仍指向该连接
func (s *Socket) detach(c *Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c)
	if cur, ok := s.peers[c.remote.Addr()]; ok && cur == c {
		delete(s.peers, c.remote.Addr())
	}
}

func (s *Socket) release(state *framing.ConnState, buf []byte) {
	if err := s.buffers.ReturnState(state); err != nil {
		logger.Warn("归还连接状态失败", "err", err)
	}
	if err := s.buffers.ReturnBuffer(buf); err != nil {
		logger.Warn("归还缓冲区失败", "err", err)
	}
}

func (s *Socket) tune(raw net.Conn) {
	tc, ok := raw.(*net.TCPConn)
	if !ok {
		return
	}
	_ = tc.SetNoDelay(s.cfg.NoDelay)
	if s.cfg.KeepAlivePeriod > 0 {
		_ = tc.SetKeepAlive(true)
		_ = tc.SetKeepAlivePeriod(s.cfg.KeepAlivePeriod)
	}
}

// isSelf 判断地址是否为本套接字自身
//
// 绑定地址为通配时以连接的本地地址为准。
func (s *Socket) isSelf(ip, local netip.Addr) bool {
	if bindIP := s.cfg.Bind.Addr().Unmap(); !bindIP.IsUnspecified() {
		return ip == bindIP
	}
	return local.IsValid() && ip == local
}

// ============================================================================
//                              发送与查询
// ============================================================================

// SendTo 分帧后发送到已注册的对端
func (s *Socket) SendTo(ip netip.Addr, payload []byte) bool {
	return s.SendFrameTo(ip, framing.Frame(payload))
}

// SendFrameTo 发送已分帧的数据到已注册的对端
//
// 对端未注册或写入失败时返回 false，写入失败的连接被关闭。
func (s *Socket) SendFrameTo(ip netip.Addr, frame []byte) bool {
	if s.closed.Load() {
		return false
	}
	c := s.Lookup(ip)
	if c == nil {
		return false
	}
	if err := c.SendFrame(frame); err != nil {
		logger.Debug("发送失败，关闭连接", "role", s.role, "remote", c.remote, "err", err)
		c.Close()
		return false
	}
	return true
}

// Lookup 查找对端连接
func (s *Socket) Lookup(ip netip.Addr) *Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.peers[ip.Unmap()]
}

// KnownPeers 返回已注册对端的快照
func (s *Socket) KnownPeers() []netip.Addr {
	s.mu.RLock()
	out := make([]netip.Addr, 0, len(s.peers))
	for ip := range s.peers {
		out = append(out, ip)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b netip.Addr) int { return a.Compare(b) })
	return out
}

// ConnectedClients 当前已连接客户端数量（仅 RoleClient 计数）
func (s *Socket) ConnectedClients() int {
	return int(s.clients.Load())
}

// Stats 返回流量统计快照
func (s *Socket) Stats() Stats {
	return s.stats.snapshot()
}

func addrPortOf(a net.Addr) netip.AddrPort {
	if ta, ok := a.(*net.TCPAddr); ok {
		ap := ta.AddrPort()
		return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
	}
	ap, _ := netip.ParseAddrPort(a.String())
	return ap
}

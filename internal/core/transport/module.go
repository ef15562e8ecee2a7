package transport

import (
	"net/netip"
	"sync/atomic"
	"time"

	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-tasknode/config"
	"github.com/dep2p/go-tasknode/internal/core/pool"
	"github.com/dep2p/go-tasknode/internal/core/transport/framing"
	"github.com/dep2p/go-tasknode/internal/core/transport/tcp"
	"github.com/dep2p/go-tasknode/internal/core/transport/udp"
	"github.com/dep2p/go-tasknode/pkg/lib/log"
)

var logger = log.Logger("core/transport")

// Config 传输层配置
type Config struct {
	// 监听地址
	Client    netip.AddrPort
	InterNode netip.AddrPort

	// 发现
	EnableDiscovery bool
	Discovery       netip.AddrPort
	BroadcastAddr   netip.Addr

	// TCP 配置
	MaxMessageSize  int
	DialTimeout     time.Duration
	WriteTimeout    time.Duration
	KeepAlivePeriod time.Duration
	NoDelay         bool

	// 池化资源
	BufferCount         int
	BufferSize          int
	DatagramBufferCount int
	DatagramBufferSize  int
}

// ConfigFromUnified 从统一配置创建传输配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return NewConfig()
	}

	c := Config{
		Client:              cfg.Node.ClientEndpoint(),
		InterNode:           cfg.Node.InterNodeEndpoint(),
		EnableDiscovery:     cfg.Discovery.Enable,
		MaxMessageSize:      cfg.Transport.MaxMessageSize,
		DialTimeout:         cfg.Transport.DialTimeout.Duration(),
		WriteTimeout:        cfg.Transport.WriteTimeout.Duration(),
		KeepAlivePeriod:     cfg.Transport.KeepAlivePeriod.Duration(),
		NoDelay:             cfg.Transport.NoDelay,
		BufferCount:         cfg.Resource.BufferCount,
		BufferSize:          cfg.Resource.BufferSize,
		DatagramBufferCount: cfg.Resource.DatagramBufferCount,
		DatagramBufferSize:  cfg.Resource.DatagramBufferSize,
	}
	if ip, err := netip.ParseAddr(cfg.Discovery.BindAddr); err == nil {
		c.Discovery = netip.AddrPortFrom(ip, cfg.Discovery.Port)
	}
	if cfg.Discovery.BroadcastAddr != "" {
		if ip, err := netip.ParseAddr(cfg.Discovery.BroadcastAddr); err == nil {
			c.BroadcastAddr = ip
		}
	}
	return c
}

// NewConfig 创建默认配置
func NewConfig() Config {
	any4 := netip.IPv4Unspecified()
	return Config{
		Client:    netip.AddrPortFrom(any4, config.DefaultClientPort),
		InterNode: netip.AddrPortFrom(any4, config.DefaultInterNodePort),
		Discovery: netip.AddrPortFrom(any4, config.DefaultDiscoveryPort),

		MaxMessageSize:  framing.DefaultMaxMessageSize,
		DialTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		KeepAlivePeriod: 30 * time.Second,
		NoDelay:         true,

		BufferCount:         pool.DefaultBufferCount,
		BufferSize:          pool.DefaultBufferSize,
		DatagramBufferCount: udp.DefaultBufferCount,
		DatagramBufferSize:  udp.DefaultBufferSize,
	}
}

func (c Config) tcpConfig(bind netip.AddrPort, reporter tcp.Reporter) (tcp.Config, error) {
	buffers, err := pool.NewBufferManager(c.BufferCount, c.BufferSize, c.MaxMessageSize)
	if err != nil {
		return tcp.Config{}, err
	}
	return tcp.Config{
		Bind:            bind,
		MaxMessageSize:  c.MaxMessageSize,
		DialTimeout:     c.DialTimeout,
		WriteTimeout:    c.WriteTimeout,
		KeepAlivePeriod: c.KeepAlivePeriod,
		NoDelay:         c.NoDelay,
		Buffers:         buffers,
		Reporter:        reporter,
	}, nil
}

// ============================================================================
//                              Manager
// ============================================================================

// Handlers 各套接字的事件处理器
type Handlers struct {
	InterNode tcp.Handler
	Client    tcp.Handler
	Discovery udp.Handler
}

// Manager 传输管理器，持有一个节点的全部套接字
type Manager struct {
	cfg Config

	Client    *tcp.Socket
	InterNode *tcp.Socket
	Connector *tcp.Socket

	// Discovery 未启用发现时为 nil
	Discovery *udp.Socket

	closed atomic.Bool
}

// NewManager 创建传输管理器
//
// 节点间监听与拨号共享同一个处理器，拨号套接字绑定节点间地址的 IP。
func NewManager(cfg Config, h Handlers, reporter tcp.Reporter) (*Manager, error) {
	m := &Manager{cfg: cfg}

	build := func(role tcp.Role, bind netip.AddrPort, handler tcp.Handler) (*tcp.Socket, error) {
		tc, err := cfg.tcpConfig(bind, reporter)
		if err != nil {
			return nil, err
		}
		return tcp.New(role, tc, handler)
	}

	var err error
	if m.InterNode, err = build(tcp.RoleInterNode, cfg.InterNode, h.InterNode); err != nil {
		return nil, err
	}
	if m.Connector, err = build(tcp.RoleConnector, netip.AddrPortFrom(cfg.InterNode.Addr(), 0), h.InterNode); err != nil {
		return nil, err
	}
	if m.Client, err = build(tcp.RoleClient, cfg.Client, h.Client); err != nil {
		return nil, err
	}

	if cfg.EnableDiscovery {
		datagrams, err := pool.NewBufferPool(cfg.DatagramBufferCount, cfg.DatagramBufferSize)
		if err != nil {
			return nil, err
		}
		m.Discovery, err = udp.New(udp.Config{
			Bind:          cfg.Discovery,
			Broadcast:     true,
			BroadcastAddr: cfg.BroadcastAddr,
			ListenAny:     true,
			Buffers:       datagrams,
		}, h.Discovery)
		if err != nil {
			return nil, err
		}
	}

	logger.Debug("传输管理器已创建",
		"client", cfg.Client, "internode", cfg.InterNode, "discovery", cfg.EnableDiscovery)
	return m, nil
}

// StartStreams 依次启动节点间监听、拨号、客户端监听
//
// 任一失败时停止已启动的套接字。
func (m *Manager) StartStreams() error {
	if m.closed.Load() {
		return ErrManagerClosed
	}

	started := make([]*tcp.Socket, 0, 3)
	for _, s := range []*tcp.Socket{m.InterNode, m.Connector, m.Client} {
		if err := s.Start(); err != nil {
			for _, prev := range started {
				_ = prev.Stop()
			}
			return err
		}
		started = append(started, s)
	}
	return nil
}

// StartDiscovery 启动发现广播套接字
func (m *Manager) StartDiscovery() error {
	if m.Discovery == nil {
		return ErrDiscoveryDisabled
	}
	return m.Discovery.Start()
}

// StopStreams 停止全部 TCP 套接字
func (m *Manager) StopStreams() error {
	return multierr.Combine(
		m.InterNode.Stop(),
		m.Connector.Stop(),
		m.Client.Stop(),
	)
}

// StopDiscovery 停止发现广播套接字
func (m *Manager) StopDiscovery() error {
	if m.Discovery == nil {
		return nil
	}
	return m.Discovery.Stop()
}

// Close 关闭所有套接字
func (m *Manager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	return multierr.Combine(m.StopStreams(), m.StopDiscovery())
}

// Config 返回传输配置
func (m *Manager) Config() Config {
	return m.cfg
}

// ============================================================================
//                              Fx 模块
// ============================================================================

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("transport",
		fx.Provide(ProvideConfig),
	)
}

// ProvideConfig 从统一配置提供传输配置
func ProvideConfig(cfg *config.Config) Config {
	return ConfigFromUnified(cfg)
}

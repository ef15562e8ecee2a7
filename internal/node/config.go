package node

import (
	"net/netip"
	"time"

	"github.com/dep2p/go-tasknode/config"
	"github.com/dep2p/go-tasknode/internal/core/transport"
)

// Config 节点配置
type Config struct {
	// Transport 套接字配置
	Transport transport.Config

	// Workers 并发执行任务数
	Workers int

	// ExecTimeout 单个任务执行超时，0 表示不限制
	ExecTimeout time.Duration

	// PollInterval worker 在没有唤醒信号时的轮询间隔
	PollInterval time.Duration

	// AllowOverwrite 结果缓存是否允许覆盖
	AllowOverwrite bool

	// ConnectRate / ConnectBurst 发现触发的拨号速率限制
	ConnectRate  float64
	ConnectBurst int

	// KnownPeers 启动时主动连接的节点间端点
	KnownPeers []netip.AddrPort
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(config.NewConfig(), transport.NewConfig())
}

// ConfigFromUnified 从统一配置创建节点配置
//
// 无法解析的 KnownPeers 条目被跳过并记录日志。
func ConfigFromUnified(cfg *config.Config, tc transport.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	c := Config{
		Transport:      tc,
		Workers:        cfg.Queue.Workers,
		ExecTimeout:    cfg.Queue.ExecTimeout.Duration(),
		PollInterval:   cfg.Queue.PollInterval.Duration(),
		AllowOverwrite: cfg.Cache.AllowOverwrite,
		ConnectRate:    cfg.Discovery.ConnectRate,
		ConnectBurst:   cfg.Discovery.ConnectBurst,
	}
	for _, p := range cfg.KnownPeers {
		ap, err := config.ParseEndpoint(p.Addr)
		if err != nil {
			logger.Warn("忽略无效的已知节点", "addr", p.Addr, "err", err)
			continue
		}
		c.KnownPeers = append(c.KnownPeers, ap)
	}
	return c
}

func (c *Config) normalize() {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 500 * time.Millisecond
	}
	if c.ConnectRate <= 0 {
		c.ConnectRate = 5
	}
	if c.ConnectBurst <= 0 {
		c.ConnectBurst = 10
	}
}

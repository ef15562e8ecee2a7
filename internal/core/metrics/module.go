package metrics

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-tasknode/config"
)

// Config 指标配置
type Config struct {
	// Enabled 是否提供 /metrics
	Enabled bool

	// Addr 监听地址
	Addr string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	d := config.DefaultDiagnosticsConfig()
	return Config{Enabled: d.EnableMetrics, Addr: d.MetricsAddr}
}

// ConfigFromUnified 从统一配置创建指标配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		Enabled: cfg.Diagnostics.EnableMetrics,
		Addr:    cfg.Diagnostics.MetricsAddr,
	}
}

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Module 是 metrics 的 Fx 模块
var Module = fx.Module("metrics",
	fx.Provide(
		NewBandwidthCounter,
		New,
		NewServerFromParams,
	),
	fx.Invoke(registerLifecycle),
)

// NewServerFromParams 从参数创建指标服务，未启用时返回 nil
func NewServerFromParams(p Params, m *Metrics) *Server {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	if !cfg.Enabled {
		return nil
	}
	return NewServer(cfg.Addr, m)
}

func registerLifecycle(lc fx.Lifecycle, srv *Server) {
	if srv == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return srv.Start() },
		OnStop:  func(ctx context.Context) error { return srv.Stop(ctx) },
	})
}

package node

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-tasknode/config"
	"github.com/dep2p/go-tasknode/internal/core/executor"
	"github.com/dep2p/go-tasknode/internal/core/metrics"
	"github.com/dep2p/go-tasknode/internal/core/transport"
	"github.com/dep2p/go-tasknode/pkg/interfaces"
)

// Params Node 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Transport  transport.Config
	Executor   interfaces.Executor `optional:"true"`
	Metrics    *metrics.Metrics
	Bandwidth  *metrics.BandwidthCounter
}

// Result Node 提供的结果
type Result struct {
	fx.Out

	Node  *Node
	Iface interfaces.Node
}

// Module 返回 Fx 模块
//
// 未注入执行器时按配置中的名称创建。
func Module() fx.Option {
	return fx.Module("node",
		fx.Provide(NewFromParams),
		fx.Invoke(registerLifecycle),
	)
}

// NewFromParams 从 Fx 参数创建节点
func NewFromParams(p Params) (Result, error) {
	exec := p.Executor
	if exec == nil {
		name := config.DefaultExecutorConfig().Name
		if p.UnifiedCfg != nil {
			name = p.UnifiedCfg.Executor.Name
		}
		var err error
		if exec, err = executor.New(name); err != nil {
			return Result{}, err
		}
	}

	n, err := New(ConfigFromUnified(p.UnifiedCfg, p.Transport), exec, p.Metrics, p.Bandwidth)
	if err != nil {
		return Result{}, err
	}
	return Result{Node: n, Iface: n}, nil
}

func registerLifecycle(lc fx.Lifecycle, n *Node) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return n.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			if !n.Running() {
				return nil
			}
			return n.Stop(ctx)
		},
	})
}

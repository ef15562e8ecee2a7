package tasknode

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-tasknode/config"
	"github.com/dep2p/go-tasknode/internal/core/metrics"
	"github.com/dep2p/go-tasknode/internal/core/transport"
	"github.com/dep2p/go-tasknode/internal/node"
	"github.com/dep2p/go-tasknode/pkg/interfaces"
	"github.com/dep2p/go-tasknode/pkg/lib/log"
)

var fxLogger = log.Logger("tasknode/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置注入
//  2. Transport 配置 → Metrics → Node
//  3. 用户扩展
func buildFxApp(cfg *config.Config, o *options, n *Node) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 核心模块
	// ════════════════════════════════════════════════════════════════════════
	modules := []fx.Option{
		fx.Supply(cfg),
		transport.Module(),
		metrics.Module,
		node.Module(),
	}

	// 自定义执行器替代按名称创建
	if o.executor != nil {
		exec := o.executor
		modules = append(modules, fx.Provide(func() interfaces.Executor { return exec }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 用户扩展（Fx Options）
	// ════════════════════════════════════════════════════════════════════════
	if len(o.fxOptions) > 0 {
		modules = append(modules, o.fxOptions...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 4. Node 组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		fx.Populate(&n.node, &n.metrics),
		fx.Invoke(func(srv *metrics.Server) { n.metricsSrv = srv }),
	)

	// ════════════════════════════════════════════════════════════════════════
	// 5. Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.WithLogger(fxEventLogger(cfg.Log)))

	fxLogger.Debug("Fx 模块已装配", "modules", len(modules), "executor", cfg.Executor.Name)
	return fx.New(modules...), nil
}

// fxEventLogger debug 级别时输出 Fx 事件，否则丢弃
func fxEventLogger(lc config.LogConfig) func() fxevent.Logger {
	return func() fxevent.Logger {
		lvl, err := log.ParseLevel(lc.Level)
		if err != nil || lvl > log.LevelDebug {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}
		zl, err := zap.NewDevelopment()
		if err != nil {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}
		return &fxevent.ZapLogger{Logger: zl}
	}
}

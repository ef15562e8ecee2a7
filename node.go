package tasknode

import (
	"context"
	"fmt"
	"io"
	"net/netip"
	"os"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-tasknode/config"
	"github.com/dep2p/go-tasknode/internal/core/metrics"
	"github.com/dep2p/go-tasknode/internal/node"
	"github.com/dep2p/go-tasknode/pkg/interfaces"
	"github.com/dep2p/go-tasknode/pkg/lib/log"
)

var logger = log.Logger("tasknode")

const (
	startTimeout = 30 * time.Second
	stopTimeout  = 15 * time.Second
)

var _ interfaces.Node = (*Node)(nil)

// Node 任务节点
//
// Node 是用户交互的主入口，持有 Fx 应用与内部协调器。
// 一个 Node 只能启动一次，Stop 之后需要重新创建。
type Node struct {
	cfg *config.Config
	app *fx.App

	// Fx 注入
	node       *node.Node
	metrics    *metrics.Metrics
	metricsSrv *metrics.Server

	logFile io.Closer

	mu      sync.Mutex
	started bool
	closed  bool
}

// ════════════════════════════════════════════════════════════════════════════
//                              构造函数
// ════════════════════════════════════════════════════════════════════════════

// New 创建新节点
//
// 创建节点但不启动，需要调用 Start() 启动。
//
// 示例：
//
//	node, err := tasknode.New(ctx,
//	    tasknode.WithPreset(tasknode.PresetLocal),
//	    tasknode.WithExecutorName("reverse"),
//	)
func New(_ context.Context, opts ...Option) (*Node, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	cfg := o.toInternalConfig()
	n := &Node{cfg: cfg}

	closer, err := setupLogging(cfg.Log)
	if err != nil {
		return nil, err
	}
	n.logFile = closer

	n.app, err = buildFxApp(cfg, o, n)
	if err == nil {
		err = n.app.Err()
	}
	if err != nil {
		n.closeLog()
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return n, nil
}

// Start 快捷启动函数
//
// 等价于 New() + Start()。
func Start(ctx context.Context, opts ...Option) (*Node, error) {
	n, err := New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if err := n.Start(ctx); err != nil {
		n.closeLog()
		return nil, fmt.Errorf("start node: %w", err)
	}
	return n, nil
}

// setupLogging 按配置设置全局日志，配置文件时返回文件句柄
func setupLogging(lc config.LogConfig) (io.Closer, error) {
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if lc.File == "" {
		return nil, nil
	}
	f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Setup(f, level, lc.Format)
	return f, nil
}

func (n *Node) closeLog() {
	if n.logFile != nil {
		_ = n.logFile.Close()
		n.logFile = nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 启动节点
//
// 依次启动指标服务与节点协调器。ctx 没有截止时间时使用默认启动超时。
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNodeClosed
	}
	if n.started {
		return ErrAlreadyStarted
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, startTimeout)
		defer cancel()
	}

	if err := n.app.Start(ctx); err != nil {
		logger.Error("节点启动失败", "err", err)
		n.closed = true
		return err
	}
	n.started = true

	logger.Info("tasknode 已启动", "self", n.Self(), "client", n.ClientAddr())
	return nil
}

// Stop 停止节点
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.started {
		return ErrNotStarted
	}
	if n.closed {
		return ErrNodeClosed
	}
	n.closed = true

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, stopTimeout)
		defer cancel()
	}

	err := n.app.Stop(ctx)
	n.closeLog()
	return err
}

// Close 停止节点并释放资源，可重复调用
func (n *Node) Close() error {
	n.mu.Lock()
	started, closed := n.started, n.closed
	n.mu.Unlock()

	if closed {
		return nil
	}
	if !started {
		n.mu.Lock()
		n.closed = true
		n.mu.Unlock()
		n.closeLog()
		return nil
	}
	return n.Stop(context.Background())
}

// ════════════════════════════════════════════════════════════════════════════
//                              基本信息
// ════════════════════════════════════════════════════════════════════════════

// State 生命周期状态
func (n *Node) State() string {
	return n.node.State()
}

// Config 返回生效的配置副本
func (n *Node) Config() *config.Config {
	return config.CloneConfig(n.cfg)
}

// Self 本节点节点间端点
func (n *Node) Self() netip.AddrPort {
	return n.node.Self()
}

// ClientAddr 客户端监听端点
func (n *Node) ClientAddr() netip.AddrPort {
	return n.node.ClientAddr()
}

// MetricsAddr 指标服务地址，未启用时返回空字符串
func (n *Node) MetricsAddr() string {
	if n.metricsSrv == nil {
		return ""
	}
	return n.metricsSrv.Addr()
}

// KnownNodes 已知节点地址快照
func (n *Node) KnownNodes() []netip.Addr {
	return n.node.KnownNodes()
}

// ConnectTo 加入对端节点所在的集群，从对端拉取全量缓存与队列
func (n *Node) ConnectTo(ctx context.Context, endpoint netip.AddrPort) error {
	if !n.node.Running() {
		return ErrNotStarted
	}
	return n.node.ConnectTo(ctx, endpoint)
}

// Queue 工作队列只读视图
func (n *Node) Queue() interfaces.TaskQueueView {
	return n.node.Queue()
}

// Results 结果缓存只读视图
func (n *Node) Results() interfaces.ResultStoreView {
	return n.node.Results()
}

// Metrics 指标集合
func (n *Node) Metrics() *metrics.Metrics {
	return n.metrics
}

// Bandwidth 流量统计
func (n *Node) Bandwidth() metrics.Stats {
	return n.node.Bandwidth()
}

// ConnectedClients 当前客户端连接数
func (n *Node) ConnectedClients() int {
	return n.node.ConnectedClients()
}

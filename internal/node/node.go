// Package node 实现任务节点协调器
//
// Node 持有工作队列、结果缓存和全部套接字，实现三套协议：
//
//   - 节点间协议：复制队列与缓存变更、全量同步、发现通知
//   - 客户端协议：提交任务、查询结果、保活
//   - 发现协议：UDP 广播上线与下线
//
// 本地产生的每一条节点间消息都带 LocalOnly=true，接收方只在本地应用。
package node

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-tasknode/internal/core/cache"
	"github.com/dep2p/go-tasknode/internal/core/codec"
	"github.com/dep2p/go-tasknode/internal/core/eventbus"
	"github.com/dep2p/go-tasknode/internal/core/executor"
	"github.com/dep2p/go-tasknode/internal/core/lifecycle"
	"github.com/dep2p/go-tasknode/internal/core/metrics"
	"github.com/dep2p/go-tasknode/internal/core/queue"
	"github.com/dep2p/go-tasknode/internal/core/transport"
	"github.com/dep2p/go-tasknode/internal/core/transport/framing"
	"github.com/dep2p/go-tasknode/internal/core/transport/tcp"
	"github.com/dep2p/go-tasknode/internal/core/transport/udp"
	"github.com/dep2p/go-tasknode/pkg/interfaces"
	"github.com/dep2p/go-tasknode/pkg/lib/log"
	"github.com/dep2p/go-tasknode/pkg/types"
)

var logger = log.Logger("node")

var _ interfaces.Node = (*Node)(nil)

// Node 任务节点
type Node struct {
	cfg   Config
	codec *codec.Codec

	queue *queue.Queue
	cache *cache.Cache
	exec  interfaces.Executor

	metrics   *metrics.Metrics
	bandwidth *metrics.BandwidthCounter

	machine *lifecycle.Machine

	// 运行期资源，Start 时创建
	mu        sync.RWMutex
	transport *transport.Manager
	queueSub  *eventbus.Subscription[queue.Event]
	cacheSub  *eventbus.Subscription[cache.Entry]
	runCtx    context.Context
	runCancel context.CancelFunc
	workers   *errgroup.Group

	accepting        atomic.Bool
	discoveryStarted atomic.Bool

	// joined 本次运行已拉取过或已向对端提供过全量数据
	joined atomic.Bool

	// 发现列表：节点 IP → 节点间端点
	discMu     sync.RWMutex
	discovered map[netip.Addr]netip.AddrPort

	// 以加入方式拨号的目标，连接建立后发送 StartUp 而不是 NewNodeDiscovered
	joinMu  sync.Mutex
	joining map[netip.Addr]struct{}

	limiter *rate.Limiter
	wake    chan struct{}
	bg      sync.WaitGroup
}

// New 创建节点
//
// exec 为 nil 时使用 echo 执行器；m 为 nil 时创建独立的指标集合。
func New(cfg Config, exec interfaces.Executor, m *metrics.Metrics, bw *metrics.BandwidthCounter) (*Node, error) {
	cfg.normalize()

	if exec == nil {
		var err error
		if exec, err = executor.New("echo"); err != nil {
			return nil, err
		}
	}
	if bw == nil {
		bw = metrics.NewBandwidthCounter()
	}
	if m == nil {
		m = metrics.New(bw)
	}

	n := &Node{
		cfg:        cfg,
		codec:      codec.New(),
		queue:      queue.New(),
		cache:      cache.New(cache.WithOverwrite(cfg.AllowOverwrite)),
		exec:       exec,
		metrics:    m,
		bandwidth:  bw,
		machine:    lifecycle.NewMachine("node"),
		discovered: make(map[netip.Addr]netip.AddrPort),
		joining:    make(map[netip.Addr]struct{}),
		limiter:    rate.NewLimiter(rate.Limit(cfg.ConnectRate), cfg.ConnectBurst),
		wake:       make(chan struct{}, cfg.Workers),
	}

	gauges := []struct {
		name, help string
		fn         func() float64
	}{
		{"queue_length", "Tasks currently queued.", func() float64 { return float64(n.queue.Len()) }},
		{"cache_entries", "Results held in the cache.", func() float64 { return float64(n.cache.Len()) }},
		{"known_nodes", "Peer nodes currently known.", func() float64 { return float64(len(n.KnownNodes())) }},
	}
	// 共享指标集合时同名指标只能注册一次，节点仍可运行
	for _, g := range gauges {
		if err := m.RegisterGauge(g.name, g.help, g.fn); err != nil {
			logger.Warn("注册指标失败", "name", g.name, "err", err)
		}
	}

	return n, nil
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动节点
//
// 任一步骤失败时回滚到 Stopped。已知节点连接失败只记录日志。
func (n *Node) Start(ctx context.Context) error {
	if err := n.machine.Transition(lifecycle.Stopped, lifecycle.Starting); err != nil {
		return err
	}

	if err := n.start(ctx); err != nil {
		n.teardown(context.Background())
		_ = n.machine.Transition(lifecycle.Starting, lifecycle.Stopped)
		return err
	}

	if err := n.machine.Transition(lifecycle.Starting, lifecycle.Running); err != nil {
		return err
	}
	logger.Info("节点已启动",
		"self", n.Self(),
		"client", n.ClientAddr(),
		"executor", n.exec.Name(),
		"discovery", n.discoveryStarted.Load())
	return nil
}

func (n *Node) start(ctx context.Context) error {
	mgr, err := transport.NewManager(n.cfg.Transport, transport.Handlers{
		InterNode: tcp.HandlerFuncs{
			Data:          n.handleInterNode,
			PeerConnected: n.handlePeerConnected,
		},
		Client:    tcp.HandlerFuncs{Data: n.handleClient},
		Discovery: udp.HandlerFunc(n.handleDiscovery),
	}, n.bandwidth)
	if err != nil {
		return fmt.Errorf("create transport: %w", err)
	}

	qs, err := n.queue.Subscribe(eventbus.ObserverFunc[queue.Event](n.onQueueEvent))
	if err != nil {
		return err
	}
	cs, err := n.cache.Subscribe(eventbus.ObserverFunc[cache.Entry](n.onCacheEntry))
	if err != nil {
		qs.Close()
		return err
	}

	runCtx, runCancel := context.WithCancel(context.Background())

	n.mu.Lock()
	n.transport = mgr
	n.queueSub, n.cacheSub = qs, cs
	n.runCtx, n.runCancel = runCtx, runCancel
	n.mu.Unlock()

	n.accepting.Store(true)
	n.joined.Store(false)

	if err := mgr.StartStreams(); err != nil {
		return fmt.Errorf("start sockets: %w", err)
	}

	if mgr.Discovery != nil {
		if err := mgr.StartDiscovery(); err != nil {
			return fmt.Errorf("start discovery: %w", err)
		}
		n.discoveryStarted.Store(true)
		if err := mgr.Discovery.SendBroadcastMessage(types.BroadcastStartup, n.Self()); err != nil {
			logger.Warn("发送上线广播失败", "err", err)
		}
	}

	n.startWorkers(runCtx)

	// 只从第一个连上的已知节点拉取数据，其余只建立连接
	for _, peer := range n.cfg.KnownPeers {
		if err := n.dial(ctx, peer, !n.joined.Load()); err != nil {
			logger.Warn("连接已知节点失败", "peer", peer, "err", err)
		}
	}
	return nil
}

// Stop 停止节点
//
// 只有成功启动过发现套接字时才广播下线消息。
func (n *Node) Stop(ctx context.Context) error {
	if err := n.machine.Transition(lifecycle.Running, lifecycle.Stopping); err != nil {
		return err
	}
	err := n.teardown(ctx)
	if terr := n.machine.Transition(lifecycle.Stopping, lifecycle.Stopped); terr != nil {
		err = multierr.Append(err, terr)
	}
	logger.Info("节点已停止", "self", n.Self())
	return err
}

// teardown 释放 start 创建的全部运行期资源，可在部分启动后调用
func (n *Node) teardown(ctx context.Context) error {
	n.mu.Lock()
	n.accepting.Store(false)
	mgr := n.transport
	qs, cs := n.queueSub, n.cacheSub
	cancel, workers := n.runCancel, n.workers
	n.queueSub, n.cacheSub, n.workers = nil, nil, nil
	n.mu.Unlock()

	var err error

	for _, done := range []<-chan struct{}{closeSub(qs), closeSub(cs)} {
		if done == nil {
			continue
		}
		select {
		case <-done:
		case <-ctx.Done():
			err = multierr.Append(err, fmt.Errorf("wait for replication: %w", ctx.Err()))
		}
	}

	if cancel != nil {
		cancel()
	}
	if workers != nil {
		if werr := workers.Wait(); werr != nil && !errors.Is(werr, context.Canceled) {
			err = multierr.Append(err, werr)
		}
	}
	n.bg.Wait()

	if mgr != nil {
		err = multierr.Append(err, mgr.StopStreams())
		if n.discoveryStarted.Swap(false) {
			if berr := mgr.Discovery.SendBroadcastMessage(types.BroadcastShutdown, n.Self()); berr != nil {
				logger.Warn("发送下线广播失败", "err", berr)
			}
		}
		err = multierr.Append(err, mgr.Close())
	}
	return err
}

// closeSub 取消订阅，返回邮箱排空后关闭的通道
func closeSub[T any](s *eventbus.Subscription[T]) <-chan struct{} {
	if s == nil {
		return nil
	}
	s.Close()
	return s.Done()
}

// ============================================================================
//                              查询
// ============================================================================

// State 返回生命周期状态
func (n *Node) State() string {
	return n.machine.State().String()
}

// Running 节点是否在运行
func (n *Node) Running() bool {
	return n.machine.State() == lifecycle.Running
}

// WaitRunning 等待节点进入运行状态
func (n *Node) WaitRunning(ctx context.Context) error {
	return n.machine.WaitFor(ctx, lifecycle.Running)
}

func (n *Node) manager() *transport.Manager {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.transport
}

// Self 返回本节点的节点间端点
//
// 绑定通配地址时使用发现网卡的 IP。
func (n *Node) Self() netip.AddrPort {
	ep := n.cfg.Transport.InterNode
	if mgr := n.manager(); mgr != nil {
		ep = mgr.InterNode.Addr()
	}
	if ep.Addr().IsUnspecified() {
		if d := n.cfg.Transport.Discovery.Addr(); d.IsValid() && !d.IsUnspecified() {
			ep = netip.AddrPortFrom(d, ep.Port())
		}
	}
	return ep
}

// ClientAddr 返回客户端监听地址
func (n *Node) ClientAddr() netip.AddrPort {
	if mgr := n.manager(); mgr != nil {
		return mgr.Client.Addr()
	}
	return n.cfg.Transport.Client
}

// KnownNodes 返回已知节点快照
//
// 启用发现时返回发现列表，否则返回两个节点间套接字注册表的并集。
func (n *Node) KnownNodes() []netip.Addr {
	if n.cfg.Transport.EnableDiscovery {
		n.discMu.RLock()
		out := make([]netip.Addr, 0, len(n.discovered))
		for ip := range n.discovered {
			out = append(out, ip)
		}
		n.discMu.RUnlock()
		slices.SortFunc(out, func(a, b netip.Addr) int { return a.Compare(b) })
		return out
	}

	mgr := n.manager()
	if mgr == nil {
		return nil
	}
	out := append(mgr.InterNode.KnownPeers(), mgr.Connector.KnownPeers()...)
	slices.SortFunc(out, func(a, b netip.Addr) int { return a.Compare(b) })
	return slices.Compact(out)
}

// Queue 返回工作队列只读视图
func (n *Node) Queue() interfaces.TaskQueueView {
	return n.queue
}

// Results 返回结果缓存只读视图
func (n *Node) Results() interfaces.ResultStoreView {
	return n.cache
}

// Metrics 返回指标集合
func (n *Node) Metrics() *metrics.Metrics {
	return n.metrics
}

// Bandwidth 返回流量统计
func (n *Node) Bandwidth() metrics.Stats {
	return n.bandwidth.Totals()
}

// ConnectedClients 当前客户端连接数
func (n *Node) ConnectedClients() int {
	if mgr := n.manager(); mgr != nil {
		return mgr.Client.ConnectedClients()
	}
	return 0
}

// ============================================================================
//                              发送
// ============================================================================

// SendToNode 发送一条消息到指定节点
//
// 只分帧一次，先尝试节点间监听套接字，再尝试拨号套接字。
func (n *Node) SendToNode(ip netip.Addr, payload []byte) bool {
	return n.sendFrame(ip, framing.Frame(payload))
}

func (n *Node) sendFrame(ip netip.Addr, frame []byte) bool {
	mgr := n.manager()
	if mgr == nil {
		return false
	}
	if mgr.InterNode.SendFrameTo(ip, frame) {
		return true
	}
	return mgr.Connector.SendFrameTo(ip, frame)
}

// ConnectTo 加入对端节点所在的集群
//
// 连接建立后向对端发送 StartUp，从对端拉取全量缓存与队列；已有连接时直接发送。
func (n *Node) ConnectTo(ctx context.Context, ep netip.AddrPort) error {
	return n.dial(ctx, ep, true)
}

// dial 连接对端的节点间端口
//
// join 为 true 时本节点拉取对端数据，否则只向对端报告自己的端点。
func (n *Node) dial(ctx context.Context, ep netip.AddrPort, join bool) error {
	mgr := n.manager()
	if mgr == nil || !n.accepting.Load() {
		return ErrNotRunning
	}

	if join {
		n.joinMu.Lock()
		n.joining[ep.Addr()] = struct{}{}
		n.joinMu.Unlock()
	}

	err := mgr.Connector.ConnectTo(ctx, ep)

	// 标记未被连接事件取走：拨号失败，或连接早已存在
	if join && n.takeJoin(ep.Addr()) && err == nil {
		n.sendStartUp(ep.Addr())
	}
	return err
}

func (n *Node) takeJoin(ip netip.Addr) bool {
	n.joinMu.Lock()
	defer n.joinMu.Unlock()
	_, ok := n.joining[ip]
	delete(n.joining, ip)
	return ok
}

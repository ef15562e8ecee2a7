package node

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-tasknode/internal/core/executor"
	"github.com/dep2p/go-tasknode/internal/core/lifecycle"
	"github.com/dep2p/go-tasknode/internal/core/transport"
	"github.com/dep2p/go-tasknode/internal/core/transport/framing"
	"github.com/dep2p/go-tasknode/pkg/client"
	"github.com/dep2p/go-tasknode/pkg/interfaces"
	"github.com/dep2p/go-tasknode/pkg/types"
)

const (
	waitFor = 5 * time.Second
	tick    = 10 * time.Millisecond
)

func testConfig(ip string) Config {
	addr := netip.MustParseAddr(ip)

	tc := transport.NewConfig()
	tc.Client = netip.AddrPortFrom(addr, 0)
	tc.InterNode = netip.AddrPortFrom(addr, 0)
	tc.Discovery = netip.AddrPortFrom(addr, 0)
	tc.DialTimeout = 2 * time.Second

	cfg := DefaultConfig()
	cfg.Transport = tc
	cfg.Workers = 2
	cfg.PollInterval = 20 * time.Millisecond
	cfg.KnownPeers = nil
	return cfg
}

func startNode(t *testing.T, cfg Config, exec interfaces.Executor) *Node {
	t.Helper()
	n, err := New(cfg, exec, nil, nil)
	require.NoError(t, err)
	require.NoError(t, n.Start(context.Background()))
	t.Cleanup(func() {
		if n.Running() {
			_ = n.Stop(context.Background())
		}
	})
	return n
}

func dialClient(t *testing.T, n *Node) *client.Client {
	t.Helper()
	c, err := client.Dial(context.Background(), n.ClientAddr().String(), client.WithPollInterval(tick))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// joinPair 启动 a，再启动以 a 为已知节点的 b，等待双方互相登记
func joinPair(t *testing.T, exec interfaces.Executor) (a, b *Node) {
	t.Helper()
	a = startNode(t, testConfig("127.0.0.21"), exec)

	cfg := testConfig("127.0.0.22")
	cfg.KnownPeers = []netip.AddrPort{a.Self()}
	b = startNode(t, cfg, exec)

	require.Eventually(t, func() bool {
		return len(a.KnownNodes()) == 1 && len(b.KnownNodes()) == 1
	}, waitFor, tick)
	return a, b
}

func blockingExecutor(release <-chan struct{}) interfaces.Executor {
	return executor.Func("block", func(ctx context.Context, p []byte) ([]byte, error) {
		select {
		case <-release:
			return p, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

// ============================================================================
//                              生命周期
// ============================================================================

func TestNode_StartStop(t *testing.T) {
	n, err := New(testConfig("127.0.0.1"), nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "stopped", n.State())

	require.NoError(t, n.Start(context.Background()))
	assert.True(t, n.Running())
	assert.True(t, n.Self().Port() != 0)
	assert.True(t, n.ClientAddr().Port() != 0)
	assert.Empty(t, n.KnownNodes())

	err = n.Start(context.Background())
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	require.NoError(t, n.Stop(context.Background()))
	assert.Equal(t, "stopped", n.State())
	assert.ErrorIs(t, n.Stop(context.Background()), lifecycle.ErrInvalidTransition)
	assert.ErrorIs(t, n.ConnectTo(context.Background(), netip.MustParseAddrPort("127.0.0.2:1")), ErrNotRunning)
}

func TestNode_RestartKeepsData(t *testing.T) {
	n := startNode(t, testConfig("127.0.0.1"), nil)
	c := dialClient(t, n)

	ctx := context.Background()
	tag, err := c.Submit(ctx, []byte("hello"), types.PriorityNormal)
	require.NoError(t, err)
	resp, err := c.Wait(ctx, tag)
	require.NoError(t, err)
	require.Equal(t, types.StatusOK, resp.Status)

	require.NoError(t, n.Stop(ctx))
	require.NoError(t, n.Start(ctx))
	assert.True(t, n.Results().Contains(tag))

	c2 := dialClient(t, n)
	resp, err = c2.Fetch(ctx, tag)
	require.NoError(t, err)
	assert.Equal(t, types.StatusOK, resp.Status)
}

func TestNode_StartFailureRollsBack(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	cfg := testConfig("127.0.0.1")
	cfg.Transport.Client = netip.MustParseAddrPort(taken.Addr().String())

	n, err := New(cfg, nil, nil, nil)
	require.NoError(t, err)
	require.Error(t, n.Start(context.Background()))
	assert.Equal(t, "stopped", n.State())
}

// ============================================================================
//                              客户端协议
// ============================================================================

func TestNode_ClientSubmitAndFetch(t *testing.T) {
	n := startNode(t, testConfig("127.0.0.1"), executor.Func("upper", func(_ context.Context, p []byte) ([]byte, error) {
		return []byte("R:" + string(p)), nil
	}))
	c := dialClient(t, n)
	ctx := context.Background()

	require.NoError(t, c.SubmitTag(ctx, "job-1", []byte("abc"), types.PriorityHigh))

	resp, err := c.Wait(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusOK, resp.Status)
	assert.Equal(t, []byte("R:abc"), resp.Payload)
	assert.Equal(t, n.Self().Addr(), resp.Source)

	require.Eventually(t, func() bool { return n.Queue().Len() == 0 }, waitFor, tick)

	// 结果仍在缓存中，同标签不能再次提交
	err = c.SubmitTag(ctx, "job-1", []byte("again"), types.PriorityNormal)
	assert.ErrorIs(t, err, client.ErrRejected)

	resp, err = c.Fetch(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, types.StatusNotFound, resp.Status)
}

func TestNode_ClientRejectsInvalidTask(t *testing.T) {
	n := startNode(t, testConfig("127.0.0.1"), nil)
	c := dialClient(t, n)

	err := c.SubmitTag(context.Background(), "empty", nil, types.PriorityNormal)
	assert.ErrorIs(t, err, client.ErrRejected)
	assert.Equal(t, 0, n.Queue().Len())
}

func TestNode_ClientPendingAndFailed(t *testing.T) {
	release := make(chan struct{})
	n := startNode(t, testConfig("127.0.0.1"), executor.Func("flaky", func(ctx context.Context, p []byte) ([]byte, error) {
		if string(p) == "fail" {
			return nil, errors.New("boom")
		}
		select {
		case <-release:
			return p, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}))
	c := dialClient(t, n)
	ctx := context.Background()

	require.NoError(t, c.SubmitTag(ctx, "slow", []byte("x"), types.PriorityNormal))
	resp, err := c.Fetch(ctx, "slow")
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, resp.Status)

	// 同标签在队列中时拒绝
	assert.ErrorIs(t, c.SubmitTag(ctx, "slow", []byte("y"), types.PriorityNormal), client.ErrRejected)

	require.NoError(t, c.SubmitTag(ctx, "bad", []byte("fail"), types.PriorityNormal))
	resp, err = c.Wait(ctx, "bad")
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailed, resp.Status)
	assert.Equal(t, "boom", resp.Error)

	close(release)
	resp, err = c.Wait(ctx, "slow")
	require.NoError(t, err)
	assert.Equal(t, types.StatusOK, resp.Status)
}

func TestNode_StopReturnsRunningTaskToQueue(t *testing.T) {
	n := startNode(t, testConfig("127.0.0.1"), blockingExecutor(make(chan struct{})))
	c := dialClient(t, n)

	require.NoError(t, c.SubmitTag(context.Background(), "held", []byte("x"), types.PriorityNormal))
	require.Eventually(t, func() bool {
		task, ok := n.queue.Get("held")
		return ok && task.State == types.StateRunning
	}, waitFor, tick)

	require.NoError(t, n.Stop(context.Background()))

	task, ok := n.queue.Get("held")
	require.True(t, ok)
	assert.Equal(t, types.StateRunnable, task.State)
	assert.False(t, n.Results().Contains("held"))
}

// ============================================================================
//                              复制
// ============================================================================

func TestNode_JoinPullsFullState(t *testing.T) {
	a := startNode(t, testConfig("127.0.0.21"), nil)

	require.NoError(t, a.cache.Write("old", types.ResultEntry{Payload: []byte("r")}, true))
	require.NoError(t, a.queue.Enqueue(types.Task{
		Tag:       "queued",
		Priority:  types.PriorityLow,
		Payload:   []byte("p"),
		LocalOnly: true,
	}, false))

	cfg := testConfig("127.0.0.22")
	cfg.KnownPeers = []netip.AddrPort{a.Self()}
	b := startNode(t, cfg, nil)

	require.Eventually(t, func() bool {
		return b.Results().Contains("old") && b.Queue().Contains("queued")
	}, waitFor, tick)

	// 快照中的任务只是副本
	task, ok := b.queue.Get("queued")
	require.True(t, ok)
	assert.True(t, task.LocalOnly)
	assert.Equal(t, []netip.Addr{b.Self().Addr()}, a.KnownNodes())
	assert.Equal(t, []netip.Addr{a.Self().Addr()}, b.KnownNodes())
	assert.True(t, a.Results().Contains("old"))
	assert.True(t, a.Queue().Contains("queued"))
}

func TestNode_ConnectToPullsFromRemote(t *testing.T) {
	a := startNode(t, testConfig("127.0.0.21"), nil)
	require.NoError(t, a.cache.Write("old", types.ResultEntry{Payload: []byte("r")}, true))
	require.NoError(t, a.queue.Enqueue(types.Task{
		Tag:       "q",
		Priority:  types.PriorityLow,
		Payload:   []byte("p"),
		LocalOnly: true,
	}, false))

	b := startNode(t, testConfig("127.0.0.22"), nil)
	require.NoError(t, b.ConnectTo(context.Background(), a.Self()))

	require.Eventually(t, func() bool {
		return b.Results().Contains("old") && b.Queue().Contains("q")
	}, waitFor, tick)

	// 被连接的一方保留自己的数据
	assert.Never(t, func() bool {
		return !a.Results().Contains("old") || !a.Queue().Contains("q")
	}, 300*time.Millisecond, tick)
	entry, err := b.Results().Read("old")
	require.NoError(t, err)
	assert.Equal(t, []byte("r"), entry.Payload)
}

func TestNode_ConnectToExistingPeerPullsAgain(t *testing.T) {
	a, b := joinPair(t, nil)

	// 只写入 a 本地，不复制
	require.NoError(t, a.cache.Write("late", types.ResultEntry{Payload: []byte("l")}, true))
	assert.Never(t, func() bool { return b.Results().Contains("late") }, 200*time.Millisecond, tick)

	require.NoError(t, b.ConnectTo(context.Background(), a.Self()))
	require.Eventually(t, func() bool { return b.Results().Contains("late") }, waitFor, tick)
	assert.True(t, a.Results().Contains("late"))
}

func TestNode_ReplicatesExecution(t *testing.T) {
	a, b := joinPair(t, nil)
	ca := dialClient(t, a)
	cb := dialClient(t, b)
	ctx := context.Background()

	require.NoError(t, ca.SubmitTag(ctx, "shared", []byte("payload"), types.PriorityNormal))

	require.Eventually(t, func() bool { return b.Results().Contains("shared") }, waitFor, tick)
	require.Eventually(t, func() bool {
		return a.Queue().Len() == 0 && b.Queue().Len() == 0
	}, waitFor, tick)

	// 结果可以从另一个节点取回，来源是执行节点
	resp, err := cb.Fetch(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, types.StatusOK, resp.Status)
	assert.Equal(t, []byte("payload"), resp.Payload)
	assert.Equal(t, a.Self().Addr(), resp.Source)

	// 标签在对端缓存中时也被拒绝
	assert.ErrorIs(t, cb.SubmitTag(ctx, "shared", []byte("x"), types.PriorityNormal), client.ErrRejected)
}

func TestNode_ReplicaIsNotExecutedByPeer(t *testing.T) {
	release := make(chan struct{})
	a, b := joinPair(t, blockingExecutor(release))
	ca := dialClient(t, a)

	require.NoError(t, ca.SubmitTag(context.Background(), "once", []byte("x"), types.PriorityNormal))

	require.Eventually(t, func() bool {
		task, ok := b.queue.Get("once")
		return ok && task.State == types.StateRunning
	}, waitFor, tick)

	// 客户端任务在接收节点上是本地任务，发往对端的副本带 LocalOnly
	own, ok := a.queue.Get("once")
	require.True(t, ok)
	assert.False(t, own.LocalOnly)
	assert.Equal(t, types.StateRunning, own.State)
	replica, _ := b.queue.Get("once")
	assert.True(t, replica.LocalOnly)
	_, claimed := b.queue.Claim(runnableHere)
	assert.False(t, claimed)

	close(release)
	require.Eventually(t, func() bool {
		return b.Results().Contains("once") && !b.Queue().Contains("once")
	}, waitFor, tick)
}

func TestNode_ForwardsNonLocalMessages(t *testing.T) {
	a, b := joinPair(t, nil)

	// 外部节点以 LocalOnly=false 发给 a，a 应转发给 b
	raw, err := net.DialTCP("tcp",
		net.TCPAddrFromAddrPort(netip.MustParseAddrPort("127.0.0.29:0")),
		net.TCPAddrFromAddrPort(a.Self()))
	require.NoError(t, err)
	defer raw.Close()

	task := types.Task{Tag: "fwd", Priority: types.PriorityNormal, Payload: []byte("p"), LocalOnly: true}
	send := func(msg types.InterNodeMessage) {
		require.NoError(t, framing.WriteFrame(raw, a.codec.EncodeInterNode(msg)))
	}

	send(types.InterNodeMessage{Type: types.InterNodeAddToQueue, Tag: "fwd", Payload: a.codec.EncodeTask(task)})
	require.Eventually(t, func() bool {
		return a.Queue().Contains("fwd") && b.Queue().Contains("fwd")
	}, waitFor, tick)

	send(types.InterNodeMessage{Type: types.InterNodeChangeStateInQueue, Tag: "fwd", Payload: a.codec.EncodeState(types.StateRunning)})
	require.Eventually(t, func() bool {
		got, ok := b.queue.Get("fwd")
		return ok && got.State == types.StateRunning
	}, waitFor, tick)

	send(types.InterNodeMessage{Type: types.InterNodeRemoveFromQueue, Tag: "fwd"})
	require.Eventually(t, func() bool {
		return !a.Queue().Contains("fwd") && !b.Queue().Contains("fwd")
	}, waitFor, tick)

	result := types.ResultEntry{Payload: []byte("r")}
	send(types.InterNodeMessage{Type: types.InterNodeAddToCache, Tag: "res", Payload: a.codec.EncodeResult(result)})
	require.Eventually(t, func() bool { return b.Results().Contains("res") }, waitFor, tick)

	send(types.InterNodeMessage{Type: types.InterNodeRemoveFromCache, Tag: "res"})
	require.Eventually(t, func() bool {
		return !a.Results().Contains("res") && !b.Results().Contains("res")
	}, waitFor, tick)
}

func TestNode_LocalOnlyMessagesStayLocal(t *testing.T) {
	a, b := joinPair(t, nil)

	raw, err := net.DialTCP("tcp",
		net.TCPAddrFromAddrPort(netip.MustParseAddrPort("127.0.0.29:0")),
		net.TCPAddrFromAddrPort(a.Self()))
	require.NoError(t, err)
	defer raw.Close()

	result := types.ResultEntry{Payload: []byte("r")}
	require.NoError(t, framing.WriteFrame(raw, a.codec.EncodeInterNode(types.InterNodeMessage{
		Type:      types.InterNodeAddToCache,
		Tag:       "local",
		LocalOnly: true,
		Payload:   a.codec.EncodeResult(result),
	})))

	require.Eventually(t, func() bool { return a.Results().Contains("local") }, waitFor, tick)
	assert.Never(t, func() bool { return b.Results().Contains("local") }, 200*time.Millisecond, tick)
}

// ============================================================================
//                              发现
// ============================================================================

func freeUDPPort(t *testing.T) uint16 {
	t.Helper()
	pc, err := net.ListenPacket("udp4", "127.0.0.31:0")
	require.NoError(t, err)
	defer pc.Close()
	return netip.MustParseAddrPort(pc.LocalAddr().String()).Port()
}

// discoveryConfig 向 127.0.0.0/8 的子网广播地址发送发现消息
func discoveryConfig(ip string, port uint16) Config {
	cfg := testConfig(ip)
	cfg.Transport.EnableDiscovery = true
	cfg.Transport.Discovery = netip.AddrPortFrom(netip.MustParseAddr(ip), port)
	cfg.Transport.BroadcastAddr = netip.MustParseAddr("127.255.255.255")
	return cfg
}

func TestNode_DiscoveryStartupAndShutdown(t *testing.T) {
	port := freeUDPPort(t)

	a := startNode(t, discoveryConfig("127.0.0.31", port), nil)
	require.NoError(t, a.cache.Write("seed", types.ResultEntry{Payload: []byte("s")}, true))

	b := startNode(t, discoveryConfig("127.0.0.32", port), nil)

	require.Eventually(t, func() bool {
		return len(a.KnownNodes()) == 1 && len(b.KnownNodes()) == 1
	}, waitFor, tick)
	assert.Equal(t, b.Self().Addr(), a.KnownNodes()[0])
	assert.Equal(t, a.Self().Addr(), b.KnownNodes()[0])

	// 新节点从已有节点拉取数据
	require.Eventually(t, func() bool { return b.Results().Contains("seed") }, waitFor, tick)

	require.NoError(t, b.Stop(context.Background()))
	require.Eventually(t, func() bool { return len(a.KnownNodes()) == 0 }, waitFor, tick)
}

func TestNode_SeedRelaysNewcomer(t *testing.T) {
	exec, err := executor.New("reverse")
	require.NoError(t, err)
	a, b := joinPair(t, exec)

	cfg := testConfig("127.0.0.23")
	cfg.KnownPeers = []netip.AddrPort{a.Self()}
	c := startNode(t, cfg, exec)

	// a 把 c 转告给 b，三个节点两两相连
	require.Eventually(t, func() bool {
		return len(a.KnownNodes()) == 2 && len(b.KnownNodes()) == 2 && len(c.KnownNodes()) == 2
	}, waitFor, tick)
	assert.Contains(t, b.KnownNodes(), netip.MustParseAddr("127.0.0.23"))

	cl := dialClient(t, b)
	require.NoError(t, cl.SubmitTag(context.Background(), "relayed", []byte("abc"), types.PriorityNormal))

	for _, n := range []*Node{a, b, c} {
		require.Eventually(t, func() bool { return n.Results().Contains("relayed") }, waitFor, tick)
	}
}

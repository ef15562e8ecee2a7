package tasknode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/dep2p/go-tasknode/config"
	"github.com/dep2p/go-tasknode/internal/core/executor"
	"github.com/dep2p/go-tasknode/pkg/client"
	"github.com/dep2p/go-tasknode/pkg/types"
)

func TestNew_InvalidOptions(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, WithListenAddr("not-an-ip"))
	assert.Error(t, err)

	_, err = New(ctx, WithPorts(-1, 0))
	assert.Error(t, err)

	_, err = New(ctx, WithKnownPeers("10.0.0.1"))
	assert.Error(t, err)

	_, err = New(ctx, WithPreset(PresetLocal), WithExecutorName("missing"))
	assert.Error(t, err)

	// 通配地址不能广播
	_, err = New(ctx, WithDiscovery(true))
	assert.Error(t, err)
}

func TestOptions_Override(t *testing.T) {
	base := config.NewConfig()
	base.Queue.Workers = 3

	o := newOptions()
	for _, opt := range []Option{
		WithConfig(base),
		WithListenAddr("10.0.0.11"),
		WithPorts(9270, 9280),
		WithKnownPeers("10.0.0.12:9280"),
		WithExecTimeout(time.Second),
	} {
		require.NoError(t, opt(o))
	}
	cfg := o.toInternalConfig()

	assert.Equal(t, "10.0.0.11", cfg.Node.InterNodeAddr)
	assert.Equal(t, "10.0.0.11", cfg.Discovery.BindAddr)
	assert.EqualValues(t, 9270, cfg.Node.ClientPort)
	assert.Equal(t, 3, cfg.Queue.Workers)
	assert.Equal(t, time.Second, cfg.Queue.ExecTimeout.Duration())
	assert.Equal(t, []config.KnownPeer{{Addr: "10.0.0.12:9280"}}, cfg.KnownPeers)

	// 起点配置不被修改
	assert.Equal(t, "0.0.0.0", base.Node.InterNodeAddr)
	assert.Empty(t, base.KnownPeers)
}

func TestPresetByName(t *testing.T) {
	for _, name := range []string{PresetNameLocal, PresetNameLAN, PresetNameServer} {
		p, ok := PresetByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, p.Name)
	}
	_, ok := PresetByName("mobile")
	assert.False(t, ok)
}

func TestNode_Lifecycle(t *testing.T) {
	ctx := context.Background()
	n, err := New(ctx, WithPreset(PresetLocal))
	require.NoError(t, err)
	assert.Equal(t, "stopped", n.State())
	assert.ErrorIs(t, n.Stop(ctx), ErrNotStarted)

	require.NoError(t, n.Start(ctx))
	assert.Equal(t, "running", n.State())
	assert.ErrorIs(t, n.Start(ctx), ErrAlreadyStarted)
	assert.NotZero(t, n.Self().Port())
	assert.Empty(t, n.MetricsAddr())

	require.NoError(t, n.Close())
	require.NoError(t, n.Close())
	assert.Equal(t, "stopped", n.State())
	assert.ErrorIs(t, n.Start(ctx), ErrNodeClosed)
}

func TestNode_SubmitThroughClient(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := Start(ctx, WithPreset(PresetLocal), WithExecutor(executor.Func("fail-on-x", func(_ context.Context, p []byte) ([]byte, error) {
		if string(p) == "x" {
			return nil, errors.New("bad input")
		}
		return append([]byte("ok:"), p...), nil
	})))
	require.NoError(t, err)
	defer n.Close()

	c, err := client.Dial(ctx, n.ClientAddr().String(), client.WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)
	defer c.Close()

	tag, err := c.Submit(ctx, []byte("a"), types.PriorityHighest)
	require.NoError(t, err)
	resp, err := c.Wait(ctx, tag)
	require.NoError(t, err)
	assert.Equal(t, types.StatusOK, resp.Status)
	assert.Equal(t, []byte("ok:a"), resp.Payload)

	tag, err = c.Submit(ctx, []byte("x"), types.PriorityNormal)
	require.NoError(t, err)
	resp, err = c.Wait(ctx, tag)
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailed, resp.Status)

	assert.Equal(t, 2, n.Results().Len())
	assert.Equal(t, 1, n.ConnectedClients())
	assert.Positive(t, n.Bandwidth().TotalIn)
}

func TestNode_KnownPeersCluster(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, err := Start(ctx, WithPreset(PresetLocal))
	require.NoError(t, err)
	defer a.Close()

	b, err := Start(ctx, WithPreset(PresetLocal), WithListenAddr("127.0.0.2"),
		WithKnownPeers(a.Self().String()))
	require.NoError(t, err)
	defer b.Close()

	require.Eventually(t, func() bool {
		return len(a.KnownNodes()) == 1 && len(b.KnownNodes()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	c, err := client.Dial(ctx, b.ClientAddr().String())
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.SubmitTag(ctx, "cluster-job", []byte("p"), types.PriorityNormal))

	require.Eventually(t, func() bool { return a.Results().Contains("cluster-job") }, 5*time.Second, 10*time.Millisecond)
}

func TestNode_MetricsEndpoint(t *testing.T) {
	ctx := context.Background()
	n, err := Start(ctx, WithPreset(PresetLocal), WithMetrics("127.0.0.1:0"))
	require.NoError(t, err)
	defer n.Close()

	addr := n.MetricsAddr()
	require.NotEmpty(t, addr)

	resp, err := http.Get(fmt.Sprintf("http://%s/metrics", addr))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tasknode_queue_length")
}

func TestNode_FxOptions(t *testing.T) {
	invoked := false
	n, err := New(context.Background(), WithPreset(PresetLocal), WithFxOptions(
		fx.Invoke(func(cfg *config.Config) { invoked = cfg != nil }),
	))
	require.NoError(t, err)
	defer n.Close()
	assert.True(t, invoked)
}

func TestVersionInfo(t *testing.T) {
	defer func(c, d string) { GitCommit, BuildDate = c, d }(GitCommit, BuildDate)

	GitCommit, BuildDate = "", ""
	assert.Equal(t, "tasknode "+Version, VersionInfo())

	GitCommit, BuildDate = "0123456789abcdef", "2026-10-19"
	assert.Equal(t, "tasknode "+Version+" (01234567) built 2026-10-19", VersionInfo())
}

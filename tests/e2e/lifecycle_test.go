//go:build e2e

// Package e2e 端到端场景测试
//
// 运行: go test -tags=e2e ./tests/e2e/...
package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-tasknode"
	"github.com/dep2p/go-tasknode/pkg/types"
	"github.com/dep2p/go-tasknode/tests/testutil"
)

// TestE2E_NodeLeavesAndPeerContinues 节点退出后剩余节点继续处理任务
func TestE2E_NodeLeavesAndPeerContinues(t *testing.T) {
	if testing.Short() {
		t.Skip("跳过 E2E 测试")
	}

	nodes := testutil.StartCluster(t, 2, tasknode.WithExecutorName("upper"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	require.NoError(t, nodes[1].Close())
	testutil.Eventually(t, 10*time.Second, func() bool {
		return len(nodes[0].KnownNodes()) == 0
	}, "退出节点应从已知节点中移除")

	c := testutil.Dial(t, nodes[0])
	tag, err := c.Submit(ctx, []byte("still here"), types.PriorityNormal)
	require.NoError(t, err)

	resp, err := c.Wait(ctx, tag)
	require.NoError(t, err)
	assert.Equal(t, types.StatusOK, resp.Status)
	assert.Equal(t, "STILL HERE", string(resp.Payload))
}

// TestE2E_StopStartKeepsResults 停止后再次启动，已有结果仍可读取
func TestE2E_StopStartKeepsResults(t *testing.T) {
	if testing.Short() {
		t.Skip("跳过 E2E 测试")
	}

	node := testutil.NewTestNode(t).WithOptions(tasknode.WithExecutorName("echo")).Start()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := testutil.Dial(t, node)
	tag, err := c.Submit(ctx, []byte("persist"), types.PriorityNormal)
	require.NoError(t, err)
	_, err = c.Wait(ctx, tag)
	require.NoError(t, err)

	require.NoError(t, node.Stop(ctx))
	assert.Equal(t, "stopped", node.State())
	assert.True(t, node.Results().Contains(tag))
}

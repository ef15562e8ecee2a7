//go:build integration

// Package integration 多节点集群集成测试
//
// 运行: go test -tags=integration ./tests/integration/...
package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-tasknode"
	"github.com/dep2p/go-tasknode/pkg/types"
	"github.com/dep2p/go-tasknode/tests/testutil"
)

// TestCluster_ResultsReplicateToAllNodes 任一节点提交，全部节点持有结果
func TestCluster_ResultsReplicateToAllNodes(t *testing.T) {
	if testing.Short() {
		t.Skip("跳过集成测试")
	}

	nodes := testutil.StartCluster(t, 3, tasknode.WithExecutorName("reverse"))
	c := testutil.Dial(t, nodes[1])

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	tags := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		tag, err := c.Submit(ctx, []byte(fmt.Sprintf("task-%02d", i)), types.PriorityNormal)
		require.NoError(t, err)
		tags = append(tags, tag)
	}

	for _, tag := range tags {
		testutil.WaitForResult(t, tag, 15*time.Second, nodes...)
	}
	testutil.WaitForEmptyQueues(t, 10*time.Second, nodes...)

	// 任一节点读出的结果一致
	for _, n := range nodes {
		entry, err := n.Results().Read(tags[3])
		require.NoError(t, err)
		assert.Equal(t, "30-ksat", string(entry.Payload))
		assert.Empty(t, entry.Error)
	}

	other := testutil.Dial(t, nodes[2])
	resp, err := other.Fetch(ctx, tags[0])
	require.NoError(t, err)
	assert.Equal(t, types.StatusOK, resp.Status)
	assert.Equal(t, "00-ksat", string(resp.Payload))
}

// TestCluster_LateJoinerPullsState 后加入的节点拉取已有结果
func TestCluster_LateJoinerPullsState(t *testing.T) {
	if testing.Short() {
		t.Skip("跳过集成测试")
	}

	nodes := testutil.StartCluster(t, 2, tasknode.WithExecutorName("echo"))
	c := testutil.Dial(t, nodes[0])

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, c.SubmitTag(ctx, "before-join", []byte("x"), types.PriorityHigh))
	testutil.WaitForResult(t, "before-join", 10*time.Second, nodes...)

	late := testutil.NewTestNode(t).
		WithListenAddr("127.0.0.3").
		WithKnownPeers(nodes[0].Self().String()).
		WithOptions(tasknode.WithExecutorName("echo")).
		Start()

	testutil.WaitForResult(t, "before-join", 10*time.Second, late)
	testutil.WaitForKnownNodes(t, nodes[0], 2, 10*time.Second)
}

// TestCluster_DuplicateTagRejectedEverywhere 已执行的标签在其他节点也被拒绝
func TestCluster_DuplicateTagRejectedEverywhere(t *testing.T) {
	if testing.Short() {
		t.Skip("跳过集成测试")
	}

	nodes := testutil.StartCluster(t, 2, tasknode.WithExecutorName("echo"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	first := testutil.Dial(t, nodes[0])
	require.NoError(t, first.SubmitTag(ctx, "dup", []byte("x"), types.PriorityNormal))
	testutil.WaitForResult(t, "dup", 10*time.Second, nodes...)

	second := testutil.Dial(t, nodes[1])
	err := second.SubmitTag(ctx, "dup", []byte("y"), types.PriorityNormal)
	require.Error(t, err)
}

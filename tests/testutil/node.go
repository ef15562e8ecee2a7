// Package testutil 提供测试辅助工具
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-tasknode"
	"github.com/dep2p/go-tasknode/pkg/client"
)

// TestNodeBuilder 测试节点构建器
//
// 示例:
//
//	node := testutil.NewTestNode(t).
//		WithListenAddr("127.0.0.2").
//		WithKnownPeers(first.Self().String()).
//		Start()
type TestNodeBuilder struct {
	t          *testing.T
	listenAddr string
	knownPeers []string
	opts       []tasknode.Option
}

// NewTestNode 创建测试节点构建器
//
// 默认配置:
//   - preset: local（回环地址、随机端口、不广播）
//   - listenAddr: 127.0.0.1
func NewTestNode(t *testing.T) *TestNodeBuilder {
	t.Helper()
	return &TestNodeBuilder{t: t, listenAddr: "127.0.0.1"}
}

// WithListenAddr 设置绑定 IP
func (b *TestNodeBuilder) WithListenAddr(ip string) *TestNodeBuilder {
	b.listenAddr = ip
	return b
}

// WithKnownPeers 设置启动时连接的节点
func (b *TestNodeBuilder) WithKnownPeers(peers ...string) *TestNodeBuilder {
	b.knownPeers = peers
	return b
}

// WithOptions 追加节点选项
func (b *TestNodeBuilder) WithOptions(opts ...tasknode.Option) *TestNodeBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Start 启动节点并注册清理函数
func (b *TestNodeBuilder) Start() *tasknode.Node {
	b.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := []tasknode.Option{
		tasknode.WithPreset(tasknode.PresetLocal),
		tasknode.WithListenAddr(b.listenAddr),
	}
	if len(b.knownPeers) > 0 {
		opts = append(opts, tasknode.WithKnownPeers(b.knownPeers...))
	}
	opts = append(opts, b.opts...)

	node, err := tasknode.Start(ctx, opts...)
	require.NoError(b.t, err, "启动测试节点失败")

	b.t.Cleanup(func() {
		if err := node.Close(); err != nil {
			b.t.Logf("关闭节点失败: %v", err)
		}
	})
	return node
}

// StartCluster 在 127.0.0.1..count 上启动节点，后启动的节点以第一个节点为已知节点
//
// 返回前等待每个节点都认识其余全部节点。
func StartCluster(t *testing.T, count int, opts ...tasknode.Option) []*tasknode.Node {
	t.Helper()

	nodes := make([]*tasknode.Node, 0, count)
	for i := 0; i < count; i++ {
		b := NewTestNode(t).WithListenAddr(fmt.Sprintf("127.0.0.%d", i+1)).WithOptions(opts...)
		if i > 0 {
			b = b.WithKnownPeers(nodes[0].Self().String())
		}
		nodes = append(nodes, b.Start())
	}

	for _, n := range nodes {
		WaitForKnownNodes(t, n, count-1, 10*time.Second)
	}
	return nodes
}

// Dial 连接节点的客户端端口并注册清理函数
func Dial(t *testing.T, n *tasknode.Node) *client.Client {
	t.Helper()
	c, err := client.Dial(context.Background(), n.ClientAddr().String(), client.WithPollInterval(20*time.Millisecond))
	require.NoError(t, err, "连接客户端端口失败")
	t.Cleanup(func() { _ = c.Close() })
	return c
}

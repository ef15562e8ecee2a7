package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dep2p/go-tasknode"
)

// WaitForCondition 等待条件满足或超时
//
// 返回：条件是否满足（超时返回 false）
func WaitForCondition(t *testing.T, timeout time.Duration, interval time.Duration, condition func() bool) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// 立即检查一次
	if condition() {
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}

// Eventually 在指定时间内重试条件检查，超时则 fail 测试
//
// 示例:
//
//	testutil.Eventually(t, 10*time.Second, func() bool {
//	    return node.Queue().Len() == 0
//	}, "队列应该清空")
func Eventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()
	if !WaitForCondition(t, timeout, 20*time.Millisecond, condition) {
		t.Fatalf("等待超时: %s", msg)
	}
}

// WaitForKnownNodes 等待节点认识至少 count 个对端
func WaitForKnownNodes(t *testing.T, n *tasknode.Node, count int, timeout time.Duration) {
	t.Helper()
	Eventually(t, timeout, func() bool {
		return len(n.KnownNodes()) >= count
	}, "等待已知节点数达到预期")
}

// WaitForResult 等待全部节点的结果缓存中出现 tag
func WaitForResult(t *testing.T, tag string, timeout time.Duration, nodes ...*tasknode.Node) {
	t.Helper()
	Eventually(t, timeout, func() bool {
		for _, n := range nodes {
			if !n.Results().Contains(tag) {
				return false
			}
		}
		return true
	}, "等待结果复制到全部节点")
}

// WaitForEmptyQueues 等待全部节点的队列清空
func WaitForEmptyQueues(t *testing.T, timeout time.Duration, nodes ...*tasknode.Node) {
	t.Helper()
	Eventually(t, timeout, func() bool {
		for _, n := range nodes {
			if n.Queue().Len() != 0 {
				return false
			}
		}
		return true
	}, "等待队列清空")
}

package node

import (
	"net/netip"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-tasknode/internal/core/cache"
	"github.com/dep2p/go-tasknode/internal/core/queue"
	"github.com/dep2p/go-tasknode/internal/core/transport/framing"
	"github.com/dep2p/go-tasknode/pkg/lib/log"
	"github.com/dep2p/go-tasknode/pkg/types"
)

// fanoutLimit 单条消息并发发送的对端数上限
const fanoutLimit = 8

// ============================================================================
//                              订阅者
// ============================================================================

// onQueueEvent 队列订阅者
//
// 事件在订阅者的 goroutine 中按发布顺序到达，同一任务的复制消息因此保持顺序。
func (n *Node) onQueueEvent(ev queue.Event) {
	t := ev.Task
	switch ev.Kind {
	case queue.EventEnqueued:
		replica := t.Clone()
		replica.LocalOnly = true
		n.broadcast(types.InterNodeMessage{
			Type:    types.InterNodeAddToQueue,
			Tag:     t.Tag,
			Payload: n.codec.EncodeTask(replica),
		})
		if !t.LocalOnly {
			n.wakeWorker()
		}

	case queue.EventStateChanged:
		n.broadcast(types.InterNodeMessage{
			Type:    types.InterNodeChangeStateInQueue,
			Tag:     t.Tag,
			Payload: n.codec.EncodeState(t.State),
		})

	case queue.EventCompleted:
		n.broadcast(types.InterNodeMessage{
			Type: types.InterNodeRemoveFromQueue,
			Tag:  t.Tag,
		})
	}
}

// onCacheEntry 缓存订阅者
func (n *Node) onCacheEntry(e cache.Entry) {
	n.broadcast(types.InterNodeMessage{
		Type:    types.InterNodeAddToCache,
		Tag:     e.Key,
		Payload: n.codec.EncodeResult(e.Value),
	})
}

// ============================================================================
//                              扇出
// ============================================================================

// broadcast 向全部已知节点发送一条节点间消息
//
// 消息总是以 LocalOnly=true 发出。对端列表取快照，失败只记录并计数，不重试。
func (n *Node) broadcast(msg types.InterNodeMessage) (delivered, failed int) {
	msg.LocalOnly = true
	peers := n.KnownNodes()
	if len(peers) == 0 {
		return 0, 0
	}

	frame := framing.Frame(n.codec.EncodeInterNode(msg))

	var ok, bad atomic.Int32
	var g errgroup.Group
	g.SetLimit(fanoutLimit)
	for _, ip := range peers {
		g.Go(func() error {
			if n.sendFrame(ip, frame) {
				ok.Add(1)
				return nil
			}
			bad.Add(1)
			logger.Warn("复制消息发送失败", "type", msg.Type, "tag", log.TruncateTag(msg.Tag, 16), "peer", ip)
			return nil
		})
	}
	_ = g.Wait()

	delivered, failed = int(ok.Load()), int(bad.Load())
	n.metrics.ReplicationSent(msg.Type, delivered, failed)
	logger.Debug("复制消息已扇出", "type", msg.Type, "tag", log.TruncateTag(msg.Tag, 16),
		"delivered", delivered, "failed", failed)
	return delivered, failed
}

// sendMessage 向单个节点发送一条节点间消息
func (n *Node) sendMessage(ip netip.Addr, msg types.InterNodeMessage) bool {
	msg.LocalOnly = true
	ok := n.SendToNode(ip, n.codec.EncodeInterNode(msg))
	if !ok {
		logger.Warn("发送节点间消息失败", "type", msg.Type, "peer", ip)
		n.metrics.ReplicationSent(msg.Type, 0, 1)
	} else {
		n.metrics.ReplicationSent(msg.Type, 1, 0)
	}
	return ok
}

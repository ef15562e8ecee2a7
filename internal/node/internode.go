package node

import (
	"errors"
	"net/netip"

	"github.com/dep2p/go-tasknode/internal/core/cache"
	"github.com/dep2p/go-tasknode/internal/core/queue"
	"github.com/dep2p/go-tasknode/internal/core/transport/tcp"
	"github.com/dep2p/go-tasknode/pkg/types"
)

// handlePeerConnected 拨号连接建立
//
// 加入方式的拨号发送 StartUp，从对端拉取全量数据；其余拨号发送不带 Tag 的
// NewNodeDiscovered 报告本节点端点，尚未同步过的对端会反过来拉取本节点数据。
func (n *Node) handlePeerConnected(remote netip.AddrPort) {
	if !n.accepting.Load() {
		return
	}
	if n.takeJoin(remote.Addr()) {
		n.sendStartUp(remote.Addr())
		return
	}
	n.sendMessage(remote.Addr(), types.InterNodeMessage{
		Type:    types.InterNodeNewNodeDiscovered,
		Payload: n.selfAnnouncement(),
	})
}

// sendStartUp 请求对端的全量缓存与队列
func (n *Node) sendStartUp(ip netip.Addr) {
	n.joined.Store(true)
	logger.Info("从节点拉取全量数据", "node", ip)
	n.sendMessage(ip, types.InterNodeMessage{
		Type:    types.InterNodeStartUp,
		Tag:     ip.String(),
		Payload: n.selfAnnouncement(),
	})
}

// selfAnnouncement 编码携带本节点节点间端点的发现消息
func (n *Node) selfAnnouncement() []byte {
	return n.codec.EncodeDiscovery(types.DiscoveryMessage{Type: types.BroadcastStartup, Endpoint: n.Self()})
}

// handleInterNode 节点间消息入口
func (n *Node) handleInterNode(in tcp.Inbound) {
	if !n.accepting.Load() {
		return
	}
	msg, err := n.codec.DecodeInterNode(in.Payload)
	if err != nil {
		logger.Warn("丢弃无法解码的节点间消息", "from", in.Source, "err", err)
		return
	}
	from := in.Source.Addr()
	logger.Debug("收到节点间消息", "type", msg.Type, "from", from, "localOnly", msg.LocalOnly)

	switch msg.Type {
	case types.InterNodeAddToCache:
		n.applyAddToCache(msg)
	case types.InterNodeRemoveFromCache:
		n.applyRemoveFromCache(msg)
	case types.InterNodeAddToQueue:
		n.applyAddToQueue(msg)
	case types.InterNodeRemoveFromQueue:
		n.applyRemoveFromQueue(msg)
	case types.InterNodeChangeStateInQueue:
		n.applyChangeState(msg)
	case types.InterNodeNewNodeDiscovered:
		n.applyNewNode(msg, from)
	case types.InterNodeStartUp:
		n.applyStartUp(msg, from)
	case types.InterNodeFullCacheUpdateSent:
		n.sendFullCache(from)
	case types.InterNodeFullCacheUpdateReceived:
		n.applyFullCache(msg, from)
	case types.InterNodeFullQueueUpdateSent:
		n.sendMessage(from, types.InterNodeMessage{
			Type:    types.InterNodeFullQueueUpdateReceived,
			Payload: n.codec.EncodeQueueSnapshot(n.queue.Snapshot()),
		})
	case types.InterNodeFullQueueUpdateReceived:
		n.applyFullQueue(msg)
	default:
		logger.Debug("忽略节点间消息", "type", msg.Type, "from", from)
	}
}

// applyAddToCache 写入复制的结果；localOnly 为 false 时缓存订阅者负责转发
func (n *Node) applyAddToCache(msg types.InterNodeMessage) {
	v, err := n.codec.DecodeResult(msg.Payload)
	if err != nil {
		logger.Warn("结果解码失败", "tag", msg.Tag, "err", err)
		return
	}
	if err := n.cache.Write(msg.Tag, v, msg.LocalOnly); err != nil {
		if errors.Is(err, cache.ErrKeyExists) {
			logger.Debug("结果已存在", "tag", msg.Tag)
			return
		}
		logger.Warn("写入复制结果失败", "tag", msg.Tag, "err", err)
	}
}

func (n *Node) applyRemoveFromCache(msg types.InterNodeMessage) {
	n.cache.Remove(msg.Tag, msg.LocalOnly)
	if !msg.LocalOnly {
		n.broadcast(types.InterNodeMessage{Type: types.InterNodeRemoveFromCache, Tag: msg.Tag})
	}
}

// applyAddToQueue 入队复制的任务；localOnly 为 false 时队列订阅者负责转发
func (n *Node) applyAddToQueue(msg types.InterNodeMessage) {
	t, err := n.codec.DecodeTask(msg.Payload)
	if err != nil {
		logger.Warn("任务解码失败", "err", err)
		return
	}
	if err := n.queue.Enqueue(t, !msg.LocalOnly); err != nil {
		if errors.Is(err, queue.ErrDuplicateTag) {
			logger.Debug("任务已在队列中", "tag", t.Tag)
			return
		}
		logger.Warn("入队复制任务失败", "tag", t.Tag, "err", err)
	}
}

func (n *Node) applyRemoveFromQueue(msg types.InterNodeMessage) {
	n.queue.RemoveTag(msg.Tag)
	if !msg.LocalOnly {
		n.broadcast(types.InterNodeMessage{Type: types.InterNodeRemoveFromQueue, Tag: msg.Tag})
	}
}

// applyChangeState localOnly 为 false 时由队列订阅者转发状态变更
func (n *Node) applyChangeState(msg types.InterNodeMessage) {
	state, err := n.codec.DecodeState(msg.Payload)
	if err != nil {
		logger.Warn("状态解码失败", "tag", msg.Tag, "err", err)
		return
	}
	if err := n.queue.ChangeState(msg.Tag, state, msg.LocalOnly); err != nil {
		if errors.Is(err, queue.ErrNotFound) {
			logger.Debug("状态变更的任务不在队列中", "tag", msg.Tag)
			return
		}
		logger.Warn("修改任务状态失败", "tag", msg.Tag, "err", err)
	}
}

// applyNewNode 登记节点
//
// 带 Tag 的是其他节点转告的新节点，连接它；不带 Tag 的是对端拨号后的自我报告，
// 本节点尚未同步过时从对端拉取数据。
func (n *Node) applyNewNode(msg types.InterNodeMessage, from netip.Addr) {
	ep := n.peerEndpoint(msg.Payload, from)
	n.addDiscovered(ep)

	if msg.Tag != "" {
		n.connectAsync(ep)
		return
	}
	if n.joined.CompareAndSwap(false, true) {
		n.sendStartUp(from)
	}
}

// applyStartUp 对端加入：登记对端，回送全量缓存，并把它转告其余已知节点
//
// 发送方收到缓存快照后再请求全量队列。
func (n *Node) applyStartUp(msg types.InterNodeMessage, from netip.Addr) {
	n.joined.Store(true)

	ep := n.peerEndpoint(msg.Payload, from)
	n.addDiscovered(ep)
	n.sendFullCache(from)

	relay := types.InterNodeMessage{
		Type:    types.InterNodeNewNodeDiscovered,
		Tag:     ep.Addr().String(),
		Payload: n.codec.EncodeDiscovery(types.DiscoveryMessage{Type: types.BroadcastStartup, Endpoint: ep}),
	}
	for _, ip := range n.KnownNodes() {
		if ip == from || ip == ep.Addr() {
			continue
		}
		n.sendMessage(ip, relay)
	}
}

func (n *Node) sendFullCache(to netip.Addr) {
	n.sendMessage(to, types.InterNodeMessage{
		Type:    types.InterNodeFullCacheUpdateReceived,
		Payload: n.codec.EncodeCacheSnapshot(n.cache.Snapshot()),
	})
}

// peerEndpoint 从负载中的发现消息取对端节点间端点
//
// 负载缺失时使用来源 IP 与本节点的节点间端口。
func (n *Node) peerEndpoint(payload []byte, from netip.Addr) netip.AddrPort {
	ep := netip.AddrPortFrom(from, n.cfg.Transport.InterNode.Port())
	if len(payload) == 0 {
		return ep
	}
	d, err := n.codec.DecodeDiscovery(payload)
	if err != nil || !d.Endpoint.IsValid() {
		return ep
	}
	if d.Endpoint.Addr().IsUnspecified() {
		return netip.AddrPortFrom(from, d.Endpoint.Port())
	}
	return d.Endpoint
}

// applyFullCache 用对端快照替换本地缓存，然后请求全量队列
func (n *Node) applyFullCache(msg types.InterNodeMessage, from netip.Addr) {
	snap, err := n.codec.DecodeCacheSnapshot(msg.Payload)
	if err != nil {
		logger.Warn("缓存快照解码失败", "from", from, "err", err)
		return
	}
	n.cache.Replace(snap)
	logger.Info("已加载全量缓存", "from", from, "entries", len(snap))

	n.sendMessage(from, types.InterNodeMessage{Type: types.InterNodeFullQueueUpdateSent})
}

// applyFullQueue 用对端快照替换本地队列
//
// 快照中的任务都由对端负责执行，载入时标记为 LocalOnly。
func (n *Node) applyFullQueue(msg types.InterNodeMessage) {
	snap, err := n.codec.DecodeQueueSnapshot(msg.Payload)
	if err != nil {
		logger.Warn("队列快照解码失败", "err", err)
		return
	}
	for i := range snap {
		snap[i].LocalOnly = true
	}
	loaded := n.queue.Replace(snap)
	logger.Info("已加载全量队列", "tasks", loaded)
}

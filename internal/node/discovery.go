package node

import (
	"net/netip"

	"github.com/dep2p/go-tasknode/internal/core/transport/udp"
	"github.com/dep2p/go-tasknode/pkg/types"
)

// handleDiscovery 发现广播入口
func (n *Node) handleDiscovery(in udp.Inbound) {
	if !n.accepting.Load() {
		return
	}
	msg, err := n.codec.DecodeDiscovery(in.Payload)
	if err != nil {
		logger.Warn("丢弃无法解码的发现消息", "from", in.Source, "err", err)
		return
	}
	n.metrics.DiscoveryMessage(msg.Type)

	ep := msg.Endpoint
	if !ep.Addr().IsValid() || ep.Addr().IsUnspecified() {
		ep = netip.AddrPortFrom(in.Source.Addr(), ep.Port())
	}
	if ep.Port() == 0 {
		ep = netip.AddrPortFrom(ep.Addr(), n.cfg.Transport.InterNode.Port())
	}
	if ep.Addr() == n.Self().Addr() {
		return
	}

	switch msg.Type {
	case types.BroadcastStartup:
		logger.Info("发现节点上线", "node", ep)
		n.addDiscovered(ep)
		n.connectAsync(ep)
	case types.BroadcastShutdown:
		logger.Info("发现节点下线", "node", ep)
		n.removeDiscovered(ep.Addr())
	case types.BroadcastMasterNodeChallenge, types.BroadcastMasterNodeResponse:
		logger.Debug("忽略主节点选举消息", "type", msg.Type, "from", ep)
	default:
		logger.Debug("忽略发现消息", "type", msg.Type, "from", ep)
	}
}

func (n *Node) addDiscovered(ep netip.AddrPort) {
	n.discMu.Lock()
	defer n.discMu.Unlock()
	n.discovered[ep.Addr()] = ep
}

func (n *Node) removeDiscovered(ip netip.Addr) {
	n.discMu.Lock()
	defer n.discMu.Unlock()
	delete(n.discovered, ip)
}

// connectAsync 在受限速的后台 goroutine 中连接节点，不拉取对端数据
func (n *Node) connectAsync(ep netip.AddrPort) {
	// accepting 在 n.mu 下置为 false，持读锁计数保证 teardown 的 Wait 覆盖本 goroutine
	n.mu.RLock()
	ctx := n.runCtx
	if ctx == nil || !n.accepting.Load() {
		n.mu.RUnlock()
		return
	}
	n.bg.Add(1)
	n.mu.RUnlock()

	go func() {
		defer n.bg.Done()
		if err := n.limiter.Wait(ctx); err != nil {
			return
		}
		if err := n.dial(ctx, ep, false); err != nil {
			logger.Warn("连接节点失败", "node", ep, "err", err)
		}
	}()
}

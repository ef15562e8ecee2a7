package udp

import (
	"net"
	"net/netip"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-tasknode/internal/core/codec"
	"github.com/dep2p/go-tasknode/internal/core/transport/framing"
	"github.com/dep2p/go-tasknode/pkg/types"
)

type collector struct {
	mu  sync.Mutex
	got []Inbound
}

func (c *collector) HandleDiscovery(in Inbound) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, in)
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.got)
}

func (c *collector) first() Inbound {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.got[0]
}

func startReceiver(t *testing.T, h Handler) *Socket {
	t.Helper()
	s, err := New(Config{Bind: netip.MustParseAddrPort("127.0.0.1:0")}, h)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	t.Cleanup(func() { s.Stop() })
	return s
}

func TestSocket_BroadcastDelivered(t *testing.T) {
	rec := &collector{}
	receiver := startReceiver(t, rec)
	port := receiver.Addr().Port()

	sender, err := New(Config{
		Bind:          netip.AddrPortFrom(netip.MustParseAddr("127.0.0.2"), port),
		Broadcast:     true,
		BroadcastAddr: netip.MustParseAddr("127.0.0.1"),
	}, nil)
	require.NoError(t, err)
	require.NoError(t, sender.Start())
	defer sender.Stop()

	self := netip.MustParseAddrPort("127.0.0.2:280")
	require.NoError(t, sender.SendBroadcastMessage(types.BroadcastStartup, self))

	require.Eventually(t, func() bool { return rec.len() == 1 }, 2*time.Second, 10*time.Millisecond)

	in := rec.first()
	assert.Equal(t, netip.MustParseAddr("127.0.0.2"), in.Source.Addr())

	msg, err := codec.New().DecodeDiscovery(in.Payload)
	require.NoError(t, err)
	assert.Equal(t, types.BroadcastStartup, msg.Type)
	assert.Equal(t, self, msg.Endpoint)
}

// loopbackBroadcast 127.0.0.0/8 的子网广播地址
var loopbackBroadcast = netip.MustParseAddr("127.255.255.255")

func TestSocket_SubnetBroadcastReachesListenAny(t *testing.T) {
	rec := &collector{}
	receiver, err := New(Config{
		Bind:          netip.MustParseAddrPort("127.0.0.1:0"),
		Broadcast:     true,
		BroadcastAddr: loopbackBroadcast,
		ListenAny:     true,
	}, rec)
	require.NoError(t, err)
	require.NoError(t, receiver.Start())
	defer receiver.Stop()
	port := receiver.Addr().Port()

	sender, err := New(Config{
		Bind:          netip.AddrPortFrom(netip.MustParseAddr("127.0.0.2"), port),
		Broadcast:     true,
		BroadcastAddr: loopbackBroadcast,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, sender.Start())
	defer sender.Stop()
	assert.Equal(t, netip.AddrPortFrom(loopbackBroadcast, port), sender.Target())

	self := netip.MustParseAddrPort("127.0.0.2:280")
	require.NoError(t, sender.SendBroadcastMessage(types.BroadcastStartup, self))

	require.Eventually(t, func() bool { return rec.len() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, netip.MustParseAddr("127.0.0.2"), rec.first().Source.Addr())

	// 自己发出的广播经通配套接字回环后被丢弃
	require.NoError(t, receiver.SendBroadcastMessage(types.BroadcastStartup, netip.MustParseAddrPort("127.0.0.1:280")))
	require.Eventually(t, func() bool {
		_, dropped := receiver.Stats()
		return dropped == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, rec.len())
}

func TestSocket_UnicastBindMissesSubnetBroadcast(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("广播投递规则按 Linux 验证")
	}
	rec := &collector{}
	receiver := startReceiver(t, rec)
	port := receiver.Addr().Port()

	sender, err := New(Config{
		Bind:          netip.AddrPortFrom(netip.MustParseAddr("127.0.0.2"), port),
		Broadcast:     true,
		BroadcastAddr: loopbackBroadcast,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, sender.Start())
	defer sender.Stop()

	require.NoError(t, sender.SendBroadcastMessage(types.BroadcastStartup, netip.MustParseAddrPort("127.0.0.2:280")))
	assert.Never(t, func() bool { return rec.len() > 0 }, 300*time.Millisecond, 20*time.Millisecond)
}

func TestSocket_DropsSelfAndShortDatagrams(t *testing.T) {
	rec := &collector{}
	receiver := startReceiver(t, rec)

	// 来自本机绑定地址
	selfConn, err := net.DialUDP("udp4", net.UDPAddrFromAddrPort(netip.MustParseAddrPort("127.0.0.1:0")),
		net.UDPAddrFromAddrPort(receiver.Addr()))
	require.NoError(t, err)
	defer selfConn.Close()
	_, err = selfConn.Write(framing.Frame([]byte("self")))
	require.NoError(t, err)

	other, err := net.DialUDP("udp4", net.UDPAddrFromAddrPort(netip.MustParseAddrPort("127.0.0.3:0")),
		net.UDPAddrFromAddrPort(receiver.Addr()))
	require.NoError(t, err)
	defer other.Close()

	// 只有前缀
	_, err = other.Write([]byte{1, 0, 0, 0})
	require.NoError(t, err)
	// 声明长度大于实际负载
	_, err = other.Write([]byte{9, 0, 0, 0, 'a'})
	require.NoError(t, err)
	// 合法
	_, err = other.Write(framing.Frame([]byte("ok")))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return rec.len() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []byte("ok"), rec.first().Payload)

	require.Eventually(t, func() bool {
		_, dropped := receiver.Stats()
		return dropped == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSocket_WildcardBroadcastFails(t *testing.T) {
	s, err := New(Config{Bind: netip.MustParseAddrPort("0.0.0.0:0"), Broadcast: true}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Start(), ErrWildcardBroadcast)
	assert.False(t, s.Started())
}

func TestSocket_SendRejections(t *testing.T) {
	s, err := New(Config{Bind: netip.MustParseAddrPort("127.0.0.1:0"), Broadcast: true,
		BroadcastAddr: netip.MustParseAddr("127.0.0.1")}, nil)
	require.NoError(t, err)

	self := netip.MustParseAddrPort("127.0.0.1:280")
	assert.ErrorIs(t, s.SendBroadcastMessage(types.BroadcastStartup, self), ErrNotStarted)
	assert.ErrorIs(t, s.SendBroadcastMessage(types.BroadcastNone, self), ErrNoneMessage)

	require.NoError(t, s.Start())
	assert.True(t, s.Started())
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.ErrorIs(t, s.SendBroadcastMessage(types.BroadcastShutdown, self), ErrSocketClosed)
}

func TestSocket_ReceiveOnlyHasNoTarget(t *testing.T) {
	s := startReceiver(t, nil)
	assert.False(t, s.Target().IsValid())
	err := s.SendBroadcastMessage(types.BroadcastStartup, netip.MustParseAddrPort("127.0.0.1:280"))
	assert.ErrorIs(t, err, ErrNoBroadcastAddr)
}

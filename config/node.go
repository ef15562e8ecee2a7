package config

import (
	"errors"
	"fmt"
	"net/netip"
)

// 默认端口
const (
	DefaultClientPort    = 270
	DefaultInterNodePort = 280
	DefaultDiscoveryPort = 275
)

// NodeConfig 节点绑定配置
//
// 节点使用三个 TCP 角色：客户端监听、节点间监听、节点间连接器。
// 连接器不监听，拨号时绑定 InterNodeAddr 的 IP。
type NodeConfig struct {
	// ClientAddr 客户端监听 IP
	ClientAddr string `json:"client_addr"`

	// ClientPort 客户端监听端口，0 表示由系统分配
	ClientPort uint16 `json:"client_port"`

	// InterNodeAddr 节点间监听 IP，同时作为本节点对外标识
	InterNodeAddr string `json:"inter_node_addr"`

	// InterNodePort 节点间监听端口，0 表示由系统分配
	InterNodePort uint16 `json:"inter_node_port"`
}

// DefaultNodeConfig 返回默认节点配置
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		ClientAddr:    "0.0.0.0",
		ClientPort:    DefaultClientPort,
		InterNodeAddr: "0.0.0.0",
		InterNodePort: DefaultInterNodePort,
	}
}

// Validate 验证节点配置
func (c NodeConfig) Validate() error {
	if _, err := netip.ParseAddr(c.ClientAddr); err != nil {
		return fmt.Errorf("invalid client address %q: %w", c.ClientAddr, err)
	}
	if _, err := netip.ParseAddr(c.InterNodeAddr); err != nil {
		return fmt.Errorf("invalid inter-node address %q: %w", c.InterNodeAddr, err)
	}
	if c.ClientPort != 0 && c.ClientAddr == c.InterNodeAddr && c.ClientPort == c.InterNodePort {
		return errors.New("client and inter-node endpoints must differ")
	}
	return nil
}

// ClientEndpoint 返回客户端监听端点
func (c NodeConfig) ClientEndpoint() netip.AddrPort {
	return netip.AddrPortFrom(netip.MustParseAddr(c.ClientAddr), c.ClientPort)
}

// InterNodeEndpoint 返回节点间监听端点
func (c NodeConfig) InterNodeEndpoint() netip.AddrPort {
	return netip.AddrPortFrom(netip.MustParseAddr(c.InterNodeAddr), c.InterNodePort)
}

// ParseEndpoint 解析 "ip:port" 形式的端点
func ParseEndpoint(s string) (netip.AddrPort, error) {
	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("invalid endpoint %q: %w", s, err)
	}
	return ap, nil
}

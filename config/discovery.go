package config

import (
	"errors"
	"fmt"
	"net/netip"
)

// DiscoveryConfig UDP 广播发现配置
type DiscoveryConfig struct {
	// Enable 是否启用广播发现
	Enable bool `json:"enable"`

	// BindAddr 广播套接字绑定 IP，启用时不能是 0.0.0.0
	BindAddr string `json:"bind_addr"`

	// Port 发现端口
	Port uint16 `json:"port"`

	// BroadcastAddr 广播目标地址
	//
	// 为空时根据绑定网卡推导子网广播地址，推导失败回退到 255.255.255.255。
	// 测试或点对点部署可以填写单播地址。
	BroadcastAddr string `json:"broadcast_addr,omitempty"`

	// ConnectRate 发现新节点后每秒允许发起的连接数
	ConnectRate float64 `json:"connect_rate"`

	// ConnectBurst 连接突发上限
	ConnectBurst int `json:"connect_burst"`
}

// DefaultDiscoveryConfig 返回默认发现配置
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		Enable:       false, // 需要显式指定网卡地址后启用
		BindAddr:     "0.0.0.0",
		Port:         DefaultDiscoveryPort,
		ConnectRate:  5,
		ConnectBurst: 10,
	}
}

// Validate 验证发现配置
func (c DiscoveryConfig) Validate() error {
	addr, err := netip.ParseAddr(c.BindAddr)
	if err != nil {
		return fmt.Errorf("invalid discovery bind address %q: %w", c.BindAddr, err)
	}
	if c.Enable && addr.IsUnspecified() {
		return errors.New("discovery requires a concrete bind address")
	}
	if c.Port == 0 {
		return errors.New("discovery port must be non-zero")
	}
	if c.BroadcastAddr != "" {
		if _, err := netip.ParseAddr(c.BroadcastAddr); err != nil {
			return fmt.Errorf("invalid broadcast address %q: %w", c.BroadcastAddr, err)
		}
	}
	if c.ConnectRate <= 0 {
		return errors.New("discovery connect rate must be positive")
	}
	if c.ConnectBurst <= 0 {
		return errors.New("discovery connect burst must be positive")
	}
	return nil
}

// WithEnable 设置是否启用发现
func (c DiscoveryConfig) WithEnable(enabled bool, bindAddr string) DiscoveryConfig {
	c.Enable = enabled
	c.BindAddr = bindAddr
	return c
}

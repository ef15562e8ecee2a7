package config

import (
	"errors"
	"fmt"
)

// ValidateAll 验证整个配置的有效性
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 可修复的问题：
//   - 非正的计数或超时 -> 使用默认值
//   - 启用发现但绑定地址为通配地址 -> 关闭发现
//   - 空日志格式 -> 文本格式
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	def := NewConfig()

	if c.Transport.MaxMessageSize <= 0 {
		c.Transport.MaxMessageSize = def.Transport.MaxMessageSize
	}
	if c.Transport.DialTimeout <= 0 {
		c.Transport.DialTimeout = def.Transport.DialTimeout
	}
	if c.Resource.BufferCount <= 0 {
		c.Resource.BufferCount = def.Resource.BufferCount
	}
	if c.Resource.DatagramBufferCount <= 0 {
		c.Resource.DatagramBufferCount = def.Resource.DatagramBufferCount
	}
	if c.Queue.Workers <= 0 {
		c.Queue.Workers = def.Queue.Workers
	}
	if c.Queue.PollInterval <= 0 {
		c.Queue.PollInterval = def.Queue.PollInterval
	}
	if c.Discovery.ConnectRate <= 0 {
		c.Discovery.ConnectRate = def.Discovery.ConnectRate
	}
	if c.Discovery.ConnectBurst <= 0 {
		c.Discovery.ConnectBurst = def.Discovery.ConnectBurst
	}
	if c.Discovery.Enable && (c.Discovery.BindAddr == "" || c.Discovery.BindAddr == "0.0.0.0") {
		c.Discovery.Enable = false
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}
	return c, nil
}

// MustValidate 验证配置，如果失败则 panic
//
// 仅用于初始化阶段或测试代码。
func MustValidate(c *Config) {
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}
}

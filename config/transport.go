package config

import (
	"errors"
	"time"
)

// TransportConfig 帧传输配置
//
// 所有 TCP 与 UDP 消息均为 "uint32 小端长度前缀 + 负载"。
type TransportConfig struct {
	// MaxMessageSize 单条消息负载上限（字节），超出视为传输错误
	MaxMessageSize int `json:"max_message_size"`

	// DialTimeout 拨号超时
	DialTimeout Duration `json:"dial_timeout"`

	// WriteTimeout 单次发送超时，0 表示不限制
	WriteTimeout Duration `json:"write_timeout"`

	// NoDelay 是否禁用 Nagle 算法
	NoDelay bool `json:"no_delay"`

	// KeepAlivePeriod TCP KeepAlive 周期，0 使用系统默认
	KeepAlivePeriod Duration `json:"keep_alive_period"`
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		MaxMessageSize:  16 << 20,
		DialTimeout:     Duration(10 * time.Second),
		WriteTimeout:    Duration(10 * time.Second),
		NoDelay:         true,
		KeepAlivePeriod: Duration(30 * time.Second),
	}
}

// Validate 验证传输配置
func (c TransportConfig) Validate() error {
	if c.MaxMessageSize <= 0 {
		return errors.New("max message size must be positive")
	}
	if c.DialTimeout <= 0 {
		return errors.New("dial timeout must be positive")
	}
	if c.WriteTimeout < 0 {
		return errors.New("write timeout must be non-negative")
	}
	if c.KeepAlivePeriod < 0 {
		return errors.New("keep alive period must be non-negative")
	}
	return nil
}

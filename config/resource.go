package config

import "errors"

// ResourceConfig 资源池配置
//
// 所有接收缓冲区与连接状态都从有界池中获取，池耗尽时新连接阻塞等待。
type ResourceConfig struct {
	// BufferCount 流缓冲区数量，同时也是连接状态数量
	BufferCount int `json:"buffer_count"`

	// BufferSize 单个流缓冲区大小（字节）
	BufferSize int `json:"buffer_size"`

	// DatagramBufferCount 数据报缓冲区数量
	DatagramBufferCount int `json:"datagram_buffer_count"`

	// DatagramBufferSize 单个数据报缓冲区大小（字节）
	DatagramBufferSize int `json:"datagram_buffer_size"`
}

// DefaultResourceConfig 返回默认资源配置
func DefaultResourceConfig() ResourceConfig {
	return ResourceConfig{
		BufferCount:         100,
		BufferSize:          2048,
		DatagramBufferCount: 16,
		DatagramBufferSize:  512,
	}
}

// Validate 验证资源配置
func (c ResourceConfig) Validate() error {
	if c.BufferCount <= 0 || c.DatagramBufferCount <= 0 {
		return errors.New("buffer counts must be positive")
	}
	// 至少能容纳长度前缀
	if c.BufferSize < 4 || c.DatagramBufferSize < 4 {
		return errors.New("buffer sizes must be at least 4 bytes")
	}
	return nil
}

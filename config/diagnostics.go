package config

import (
	"errors"
	"net"
)

// DiagnosticsConfig 诊断服务配置
type DiagnosticsConfig struct {
	// EnableMetrics 启用 Prometheus 指标 HTTP 服务
	EnableMetrics bool `json:"enable_metrics"`

	// MetricsAddr 指标服务监听地址
	// 默认 "127.0.0.1:9270"
	MetricsAddr string `json:"metrics_addr"`
}

// DefaultDiagnosticsConfig 返回默认诊断配置
func DefaultDiagnosticsConfig() DiagnosticsConfig {
	return DiagnosticsConfig{
		EnableMetrics: false, // 默认禁用
		MetricsAddr:   "127.0.0.1:9270",
	}
}

// Validate 验证诊断配置
func (c DiagnosticsConfig) Validate() error {
	if !c.EnableMetrics {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
		return errors.New("invalid metrics address")
	}
	return nil
}

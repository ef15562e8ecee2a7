package config

import "errors"

// ExecutorConfig 任务执行器配置
type ExecutorConfig struct {
	// Name 执行器名称，取值见 internal/core/executor 的注册表
	Name string `json:"name"`
}

// DefaultExecutorConfig 返回默认执行器配置
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{Name: "echo"}
}

// Validate 验证执行器配置
//
// 名称是否已注册由执行器模块在启动时检查。
func (c ExecutorConfig) Validate() error {
	if c.Name == "" {
		return errors.New("executor name is required")
	}
	return nil
}

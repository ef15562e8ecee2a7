package config

import (
	"errors"
	"time"
)

// QueueConfig 工作队列配置
type QueueConfig struct {
	// Workers 并发执行任务的 worker 数
	Workers int `json:"workers"`

	// ExecTimeout 单个任务执行超时，0 表示不限制
	ExecTimeout Duration `json:"exec_timeout"`

	// PollInterval 队列为空时 worker 的兜底轮询间隔
	PollInterval Duration `json:"poll_interval"`
}

// DefaultQueueConfig 返回默认队列配置
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		Workers:      4,
		ExecTimeout:  Duration(30 * time.Second),
		PollInterval: Duration(500 * time.Millisecond),
	}
}

// Validate 验证队列配置
func (c QueueConfig) Validate() error {
	if c.Workers <= 0 {
		return errors.New("queue workers must be positive")
	}
	if c.ExecTimeout < 0 {
		return errors.New("exec timeout must be non-negative")
	}
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	return nil
}

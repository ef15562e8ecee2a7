// Package types 定义 tasknode 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              任务相关错误
// ============================================================================

var (
	// ErrEmptyTag 任务标签为空
	ErrEmptyTag = errors.New("empty task tag")

	// ErrEmptyPayload 任务负载为空
	ErrEmptyPayload = errors.New("empty task payload")

	// ErrInvalidPriority 无效的优先级
	ErrInvalidPriority = errors.New("invalid queue priority")

	// ErrInvalidState 无效的任务状态
	ErrInvalidState = errors.New("invalid process state")
)

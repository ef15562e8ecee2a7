// Package log 提供 tasknode 统一日志接口
//
// 基于 Go 标准库 log/slog 封装，各组件通过 Logger(component) 获取
// 懒加载 logger，输出目标和级别可在运行时由 Setup 切换。
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// 日志级别常量（从 slog 导出，方便使用）
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// 输出格式
const (
	FormatText = "text"
	FormatJSON = "json"
)

// SetDefault 设置默认 logger
func SetDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// Default 返回默认 logger
func Default() *slog.Logger {
	return slog.Default()
}

// New 创建新的文本格式 logger
func New(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewJSON 创建 JSON 格式的 logger
func NewJSON(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Setup 按级别和格式重建默认 logger
//
// w 为 nil 时输出到 os.Stderr；format 为空时使用文本格式。
//
// 示例：
//
//	file, _ := os.OpenFile("node.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
//	log.Setup(file, log.LevelDebug, log.FormatJSON)
func Setup(w io.Writer, level slog.Level, format string) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		SetDefault(NewJSON(w, opts))
		return
	}
	SetDefault(New(w, opts))
}

// SetOutputWithLevel 同时设置日志输出目标和级别（文本格式）
func SetOutputWithLevel(w io.Writer, level slog.Level) {
	Setup(w, level, FormatText)
}

// ParseLevel 解析日志级别字符串
//
// 支持 debug/info/warn/warning/error（大小写不敏感），空字符串视为 info。
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// ============================================================================
//                              LazyLogger
// ============================================================================

// LazyLogger 懒加载 logger
//
// 每次日志调用时都从 slog.Default() 获取最新的 handler，
// 支持在运行时动态切换日志输出目标。
//
// 使用方式：
//
//	var logger = log.Logger("core/queue")
//	logger.Info("任务入队", "tag", tag)
type LazyLogger struct {
	component string
}

// Logger 返回带组件名的 LazyLogger
func Logger(component string) *LazyLogger {
	return &LazyLogger{component: component}
}

func (l *LazyLogger) current() *slog.Logger {
	return slog.Default().With("component", l.component)
}

// Component 返回组件名
func (l *LazyLogger) Component() string {
	return l.component
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) {
	l.current().Debug(msg, args...)
}

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) {
	l.current().Info(msg, args...)
}

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) {
	l.current().Warn(msg, args...)
}

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) {
	l.current().Error(msg, args...)
}

// DebugContext 带 context 的 Debug 日志
func (l *LazyLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.current().DebugContext(ctx, msg, args...)
}

// WarnContext 带 context 的 Warn 日志
func (l *LazyLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.current().WarnContext(ctx, msg, args...)
}

// With 添加额外的属性
func (l *LazyLogger) With(args ...any) *slog.Logger {
	return l.current().With(args...)
}

// ============================================================================
//                              工具函数
// ============================================================================

// TruncateTag 安全截取任务标签用于日志显示
func TruncateTag(tag string, maxLen int) string {
	if len(tag) <= maxLen {
		return tag
	}
	return tag[:maxLen]
}

func init() {
	SetDefault(New(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

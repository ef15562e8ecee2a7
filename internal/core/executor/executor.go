// Package executor 提供内置的任务执行器
//
// 执行器在编译期注册到工厂表，由配置中的名称选择：
//
//	echo    原样返回负载
//	reverse 按字节反转
//	sha256  返回负载的 SHA-256 十六进制摘要
//	upper   转为大写
//
// 自定义执行器可以通过根包的 WithExecutor 选项注入。
package executor

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/dep2p/go-tasknode/pkg/interfaces"
)

var (
	// ErrUnknownExecutor 名称未注册
	ErrUnknownExecutor = errors.New("executor: unknown name")
)

// Factory 执行器构造函数
type Factory func() interfaces.Executor

// registry 工厂表
var registry = map[string]Factory{
	"echo":    func() interfaces.Executor { return Func("echo", echo) },
	"reverse": func() interfaces.Executor { return Func("reverse", reverse) },
	"sha256":  func() interfaces.Executor { return Func("sha256", digest) },
	"upper":   func() interfaces.Executor { return Func("upper", upper) },
}

// New 按名称创建执行器
func New(name string) (interfaces.Executor, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownExecutor, name, Names())
	}
	return f(), nil
}

// Names 返回已注册的执行器名称
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ============================================================================
//                              函数适配
// ============================================================================

type funcExecutor struct {
	name string
	fn   func(ctx context.Context, payload []byte) ([]byte, error)
}

// Func 把函数包装为执行器
func Func(name string, fn func(ctx context.Context, payload []byte) ([]byte, error)) interfaces.Executor {
	return &funcExecutor{name: name, fn: fn}
}

func (e *funcExecutor) Name() string { return e.name }

func (e *funcExecutor) Execute(ctx context.Context, payload []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.fn(ctx, payload)
}

// ============================================================================
//                              内置实现
// ============================================================================

func echo(_ context.Context, p []byte) ([]byte, error) {
	return bytes.Clone(p), nil
}

func reverse(_ context.Context, p []byte) ([]byte, error) {
	out := bytes.Clone(p)
	slices.Reverse(out)
	return out, nil
}

func digest(_ context.Context, p []byte) ([]byte, error) {
	sum := sha256.Sum256(p)
	return []byte(hex.EncodeToString(sum[:])), nil
}

func upper(_ context.Context, p []byte) ([]byte, error) {
	return bytes.ToUpper(p), nil
}

// Package main 提供 tasknode 命令行入口
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dep2p/go-tasknode"
	"github.com/dep2p/go-tasknode/config"
	"github.com/dep2p/go-tasknode/internal/core/executor"
	"github.com/dep2p/go-tasknode/pkg/lib/log"
)

var logger = log.Logger("tasknode/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
//   命令行参数：运行时覆盖 / 快速测试
//   JSON 配置文件：持久化配置 / 长期运行
//
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile = flag.String("config", "", "配置文件路径")
	preset     = flag.String("preset", "", "预设配置 (local/lan/server)")

	// ─────────────────────────────────────────────────────────────────────
	// 监听
	// ─────────────────────────────────────────────────────────────────────
	listen        = flag.String("listen", "", "绑定 IP（客户端、节点间与发现共用）")
	clientPort    = flag.Int("client-port", config.DefaultClientPort, "客户端端口（0 = 随机端口）")
	interNodePort = flag.Int("internode-port", config.DefaultInterNodePort, "节点间端口（0 = 随机端口）")

	// ─────────────────────────────────────────────────────────────────────
	// 发现
	// ─────────────────────────────────────────────────────────────────────
	discovery     = flag.Bool("discovery", false, "启用 UDP 广播发现")
	discoveryPort = flag.Int("discovery-port", config.DefaultDiscoveryPort, "发现端口")
	broadcast     = flag.String("broadcast", "", "广播目标地址（默认按子网推导）")
	peers         = flag.String("peers", "", "已知节点，逗号分隔，例如 10.0.0.12:280")

	// ─────────────────────────────────────────────────────────────────────
	// 执行
	// ─────────────────────────────────────────────────────────────────────
	execName    = flag.String("executor", "", "执行器名称")
	workers     = flag.Int("workers", 0, "并发 worker 数")
	execTimeout = flag.Duration("exec-timeout", 0, "单个任务执行超时")

	// ─────────────────────────────────────────────────────────────────────
	// 诊断与日志
	// ─────────────────────────────────────────────────────────────────────
	metricsAddr = flag.String("metrics", "", "Prometheus 指标监听地址")
	logLevel    = flag.String("log-level", "", "日志级别 (debug/info/warn/error)")
	logFormat   = flag.String("log-format", "", "日志格式 (text/json)")
	logFile     = flag.String("log", "", "日志文件路径")

	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(tasknode.VersionInfo())
		fmt.Println("executors:", executor.Names())
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}
	if err := setupLogging(cfg.Log); err != nil {
		return err
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("启动 tasknode 节点", "version", tasknode.Version, "commit", tasknode.GitCommit)

	node, err := tasknode.Start(ctx, opts...)
	if err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}

	printNodeInfo(node)
	fmt.Println("节点已启动，按 Ctrl+C 退出")
	<-ctx.Done()

	fmt.Println("\n正在关闭节点...")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	return node.Stop(stopCtx)
}

// loadConfig 加载配置文件并应用环境变量与日志参数
//
// 配置优先级（从高到低）：
//  1. 命令行参数
//  2. 环境变量（TASKNODE_* 前缀）
//  3. 配置文件
//  4. 默认值
func loadConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if *configFile != "" {
		var err error
		if cfg, err = config.LoadFile(*configFile); err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	return config.ValidateAndFix(cfg)
}

// setupLogging 设置控制台日志；配置了日志文件时由节点切换输出
func setupLogging(lc config.LogConfig) error {
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		return err
	}
	log.Setup(os.Stderr, level, lc.Format)
	return nil
}

// buildOptions 把命令行参数转换为节点选项
func buildOptions(cfg *config.Config) ([]tasknode.Option, error) {
	opts := []tasknode.Option{tasknode.WithConfig(cfg)}

	if *preset != "" {
		p, ok := tasknode.PresetByName(*preset)
		if !ok {
			return nil, fmt.Errorf("未知预设 %q", *preset)
		}
		opts = append(opts, tasknode.WithPreset(p))
	}

	if *listen != "" {
		opts = append(opts, tasknode.WithListenAddr(*listen))
	}
	if isFlagSet("client-port") || isFlagSet("internode-port") {
		cp, ip := int(cfg.Node.ClientPort), int(cfg.Node.InterNodePort)
		if isFlagSet("client-port") {
			cp = *clientPort
		}
		if isFlagSet("internode-port") {
			ip = *interNodePort
		}
		opts = append(opts, tasknode.WithPorts(cp, ip))
	}

	if isFlagSet("discovery") {
		opts = append(opts, tasknode.WithDiscovery(*discovery))
	}
	if isFlagSet("discovery-port") {
		opts = append(opts, tasknode.WithDiscoveryPort(*discoveryPort))
	}
	if *broadcast != "" {
		opts = append(opts, tasknode.WithBroadcastAddr(*broadcast))
	}
	if *peers != "" {
		opts = append(opts, tasknode.WithKnownPeers(splitAndTrim(*peers, ",")...))
	}

	if *execName != "" {
		opts = append(opts, tasknode.WithExecutorName(*execName))
	}
	if *workers > 0 {
		opts = append(opts, tasknode.WithWorkers(*workers))
	}
	if *execTimeout > 0 {
		opts = append(opts, tasknode.WithExecTimeout(*execTimeout))
	}
	if *metricsAddr != "" {
		opts = append(opts, tasknode.WithMetrics(*metricsAddr))
	}
	return opts, nil
}

// isFlagSet 检查命令行参数是否被显式设置
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// printNodeInfo 打印节点信息
func printNodeInfo(n *tasknode.Node) {
	cfg := n.Config()
	fmt.Println()
	fmt.Println("╔════════════════════════════════════════════════════════════╗")
	fmt.Printf("║  tasknode %-48s ║\n", tasknode.Version)
	fmt.Println("╠════════════════════════════════════════════════════════════╣")
	fmt.Printf("║  节点间端点: %-45s ║\n", n.Self())
	fmt.Printf("║  客户端端点: %-45s ║\n", n.ClientAddr())
	fmt.Printf("║  执行器:     %-45s ║\n", cfg.Executor.Name)
	fmt.Printf("║  广播发现:   %-45t ║\n", cfg.Discovery.Enable)
	if addr := n.MetricsAddr(); addr != "" {
		fmt.Printf("║  指标:       %-45s ║\n", "http://"+addr+"/metrics")
	}
	fmt.Println("╚════════════════════════════════════════════════════════════╝")
	fmt.Println()
}

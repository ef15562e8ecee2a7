package tasknode

import (
	"fmt"
	"net/netip"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-tasknode/config"
	"github.com/dep2p/go-tasknode/pkg/interfaces"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 预设配置
	preset *Preset

	// 用户提供的完整配置，作为覆盖的起点
	base *config.Config

	// 监听地址
	listenAddr    string
	clientPort    *uint16
	interNodePort *uint16

	// 发现配置
	discovery struct {
		enable        *bool
		port          *uint16
		broadcastAddr string
	}
	knownPeers    []string
	knownPeersSet bool

	// 执行配置
	executor     interfaces.Executor
	executorName string
	workers      int
	execTimeout  time.Duration

	// 指标配置
	metricsAddr string

	// 日志配置
	logFile string

	// 用户自定义 Fx 选项
	fxOptions []fx.Option
}

func newOptions() *options {
	return &options{}
}

// toInternalConfig 转换为内部配置
func (o *options) toInternalConfig() *config.Config {
	var cfg *config.Config
	if o.base != nil {
		cfg = config.CloneConfig(o.base)
	} else {
		cfg = config.NewConfig()
	}

	if o.preset != nil {
		o.preset.Apply(cfg)
	}

	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}

	if o.listenAddr != "" {
		cfg.Node.ClientAddr = o.listenAddr
		cfg.Node.InterNodeAddr = o.listenAddr
		cfg.Discovery.BindAddr = o.listenAddr
	}
	if o.clientPort != nil {
		cfg.Node.ClientPort = *o.clientPort
	}
	if o.interNodePort != nil {
		cfg.Node.InterNodePort = *o.interNodePort
	}

	if o.discovery.enable != nil {
		cfg.Discovery.Enable = *o.discovery.enable
	}
	if o.discovery.port != nil {
		cfg.Discovery.Port = *o.discovery.port
	}
	if o.discovery.broadcastAddr != "" {
		cfg.Discovery.BroadcastAddr = o.discovery.broadcastAddr
	}
	// 显式设置为空用于首个节点
	if o.knownPeersSet {
		cfg.KnownPeers = cfg.KnownPeers[:0]
		for _, p := range o.knownPeers {
			cfg.KnownPeers = append(cfg.KnownPeers, config.KnownPeer{Addr: p})
		}
	}

	if o.executorName != "" {
		cfg.Executor.Name = o.executorName
	}
	if o.workers > 0 {
		cfg.Queue.Workers = o.workers
	}
	if o.execTimeout > 0 {
		cfg.Queue.ExecTimeout = config.Duration(o.execTimeout)
	}

	if o.metricsAddr != "" {
		cfg.Diagnostics.EnableMetrics = true
		cfg.Diagnostics.MetricsAddr = o.metricsAddr
	}

	return cfg
}

// ============================================================================
//                              配置选项
// ============================================================================

// WithPreset 使用预设配置
//
// 预设在用户配置之后、其他选项之前应用。
func WithPreset(preset *Preset) Option {
	return func(o *options) error {
		if preset == nil {
			return fmt.Errorf("预设不能为空")
		}
		o.preset = preset
		return nil
	}
}

// WithConfig 使用完整配置作为起点
//
// 其他选项在此配置的副本上覆盖，不修改 cfg。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("配置不能为空")
		}
		o.base = cfg
		return nil
	}
}

// WithLogFile 设置日志文件
func WithLogFile(path string) Option {
	return func(o *options) error {
		o.logFile = path
		return nil
	}
}

// ============================================================================
//                              监听选项
// ============================================================================

// WithListenAddr 设置客户端、节点间与发现套接字绑定的 IP
//
// 示例:
//
//	tasknode.New(ctx, tasknode.WithListenAddr("10.0.0.11"))
func WithListenAddr(ip string) Option {
	return func(o *options) error {
		if _, err := netip.ParseAddr(ip); err != nil {
			return fmt.Errorf("无效的监听地址 %q: %w", ip, err)
		}
		o.listenAddr = ip
		return nil
	}
}

// WithPorts 设置客户端端口与节点间端口
//
// port=0 表示使用系统分配的随机端口。
func WithPorts(client, interNode int) Option {
	return func(o *options) error {
		for _, p := range []int{client, interNode} {
			if p < 0 || p > 65535 {
				return fmt.Errorf("无效的端口号: %d", p)
			}
		}
		c, i := uint16(client), uint16(interNode)
		o.clientPort, o.interNodePort = &c, &i
		return nil
	}
}

// ============================================================================
//                              发现选项
// ============================================================================

// WithDiscovery 启用或禁用 UDP 广播发现
//
// 启用时需要 WithListenAddr 指定具体网卡地址。
func WithDiscovery(enable bool) Option {
	return func(o *options) error {
		o.discovery.enable = &enable
		return nil
	}
}

// WithDiscoveryPort 设置发现端口
func WithDiscoveryPort(port int) Option {
	return func(o *options) error {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("无效的发现端口: %d", port)
		}
		p := uint16(port)
		o.discovery.port = &p
		return nil
	}
}

// WithBroadcastAddr 覆盖广播目标地址
func WithBroadcastAddr(ip string) Option {
	return func(o *options) error {
		if _, err := netip.ParseAddr(ip); err != nil {
			return fmt.Errorf("无效的广播地址 %q: %w", ip, err)
		}
		o.discovery.broadcastAddr = ip
		return nil
	}
}

// WithKnownPeers 设置启动时主动连接的节点
//
// 地址为对端节点间端点，例如 "10.0.0.12:280"。
func WithKnownPeers(peers ...string) Option {
	return func(o *options) error {
		for _, p := range peers {
			if _, err := config.ParseEndpoint(p); err != nil {
				return err
			}
		}
		o.knownPeers = append([]string(nil), peers...)
		o.knownPeersSet = true
		return nil
	}
}

// ============================================================================
//                              执行选项
// ============================================================================

// WithExecutor 注入自定义执行器，优先于 WithExecutorName
func WithExecutor(exec interfaces.Executor) Option {
	return func(o *options) error {
		if exec == nil {
			return fmt.Errorf("执行器不能为空")
		}
		o.executor = exec
		return nil
	}
}

// WithExecutorName 按名称选择内置执行器
func WithExecutorName(name string) Option {
	return func(o *options) error {
		o.executorName = name
		return nil
	}
}

// WithWorkers 设置并发 worker 数
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("worker 数必须为正数: %d", n)
		}
		o.workers = n
		return nil
	}
}

// WithExecTimeout 设置单个任务的执行超时
func WithExecTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("执行超时必须为正数: %v", d)
		}
		o.execTimeout = d
		return nil
	}
}

// ============================================================================
//                              诊断与扩展
// ============================================================================

// WithMetrics 在 addr 上提供 Prometheus /metrics
func WithMetrics(addr string) Option {
	return func(o *options) error {
		o.metricsAddr = addr
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}

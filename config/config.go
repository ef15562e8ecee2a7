// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Discovery.Enable = false
//
//	// 从文件加载
//	cfg, err := config.LoadFile("node.json")
package config

// KnownPeer 已知节点配置
//
// 启动时直接连接的节点，不依赖广播发现。
// 适用于跨网段部署或禁用广播的场景。
type KnownPeer struct {
	// Addr 对端节点间端口地址，例如 "10.0.0.12:280"
	Addr string `json:"addr"`
}

// Config 是 tasknode 的完整配置结构
//
// 配置按照功能模块组织：
//   - Node: 客户端端口与节点间端口的绑定
//   - Transport: 帧传输参数
//   - Discovery: UDP 广播发现
//   - Resource: 缓冲池容量
//   - Queue: 工作队列与执行并发
//   - Cache: 结果缓存策略
//   - Executor: 任务执行器选择
//   - Diagnostics: 指标服务
//   - Log: 日志输出
type Config struct {
	// Node 节点绑定配置
	Node NodeConfig `json:"node"`

	// Transport 传输层配置
	Transport TransportConfig `json:"transport"`

	// Discovery 发现配置
	Discovery DiscoveryConfig `json:"discovery"`

	// Resource 资源池配置
	Resource ResourceConfig `json:"resource"`

	// Queue 工作队列配置
	Queue QueueConfig `json:"queue"`

	// Cache 结果缓存配置
	Cache CacheConfig `json:"cache"`

	// Executor 执行器配置
	Executor ExecutorConfig `json:"executor"`

	// Diagnostics 诊断服务配置
	Diagnostics DiagnosticsConfig `json:"diagnostics"`

	// Log 日志配置
	Log LogConfig `json:"log"`

	// KnownPeers 已知节点列表
	KnownPeers []KnownPeer `json:"known_peers,omitempty"`
}

// NewConfig 创建默认配置
//
// 返回的配置使用所有组件的默认值，适用于大多数场景。
func NewConfig() *Config {
	return &Config{
		Node:        DefaultNodeConfig(),
		Transport:   DefaultTransportConfig(),
		Discovery:   DefaultDiscoveryConfig(),
		Resource:    DefaultResourceConfig(),
		Queue:       DefaultQueueConfig(),
		Cache:       DefaultCacheConfig(),
		Executor:    DefaultExecutorConfig(),
		Diagnostics: DefaultDiagnosticsConfig(),
		Log:         DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置是否有效，如果发现无效配置则返回错误。
func (c *Config) Validate() error {
	if err := c.Node.Validate(); err != nil {
		return err
	}
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	if err := c.Discovery.Validate(); err != nil {
		return err
	}
	if err := c.Resource.Validate(); err != nil {
		return err
	}
	if err := c.Queue.Validate(); err != nil {
		return err
	}
	if err := c.Executor.Validate(); err != nil {
		return err
	}
	if err := c.Diagnostics.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	for _, p := range c.KnownPeers {
		if _, err := ParseEndpoint(p.Addr); err != nil {
			return err
		}
	}
	return nil
}

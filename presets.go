package tasknode

import (
	"time"

	"github.com/dep2p/go-tasknode/config"
)

// 预设名称常量
const (
	// PresetNameLocal 本机预设名称
	PresetNameLocal = "local"

	// PresetNameLAN 局域网预设名称
	PresetNameLAN = "lan"

	// PresetNameServer 服务器预设名称
	PresetNameServer = "server"
)

// Preset 预设配置
type Preset struct {
	// Name 预设名称
	Name string

	// Apply 把预设写入配置
	Apply func(cfg *config.Config)
}

// PresetLocal 本机单节点或测试集群
//
// 绑定回环地址，端口由系统分配，不广播。
var PresetLocal = &Preset{
	Name: PresetNameLocal,
	Apply: func(cfg *config.Config) {
		cfg.Node.ClientAddr = "127.0.0.1"
		cfg.Node.InterNodeAddr = "127.0.0.1"
		cfg.Node.ClientPort = 0
		cfg.Node.InterNodePort = 0
		cfg.Discovery.Enable = false
		cfg.Queue.Workers = 2
		cfg.Queue.PollInterval = config.Duration(50 * time.Millisecond)
		cfg.Transport.DialTimeout = config.Duration(2 * time.Second)
	},
}

// PresetLAN 同一子网内依靠广播互相发现
//
// 需要配合 WithListenAddr 指定网卡地址。
var PresetLAN = &Preset{
	Name: PresetNameLAN,
	Apply: func(cfg *config.Config) {
		cfg.Discovery.Enable = true
	},
}

// PresetServer 服务器部署
//
// 更多 worker，更大的缓冲池，任务执行限时。
var PresetServer = &Preset{
	Name: PresetNameServer,
	Apply: func(cfg *config.Config) {
		cfg.Queue.Workers = 16
		cfg.Queue.ExecTimeout = config.Duration(5 * time.Minute)
		cfg.Resource.BufferCount *= 4
	},
}

// PresetByName 按名称查找预设
func PresetByName(name string) (*Preset, bool) {
	switch name {
	case PresetNameLocal:
		return PresetLocal, true
	case PresetNameLAN:
		return PresetLAN, true
	case PresetNameServer:
		return PresetServer, true
	default:
		return nil, false
	}
}

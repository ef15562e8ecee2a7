package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/dep2p/go-tasknode/config"
)

// 环境变量（均使用 TASKNODE_ 前缀）
const (
	envPrefix        = "TASKNODE_"
	envListen        = "LISTEN"
	envClientPort    = "CLIENT_PORT"
	envInterNodePort = "INTERNODE_PORT"
	envDiscovery     = "DISCOVERY"
	envKnownPeers    = "KNOWN_PEERS"
	envExecutor      = "EXECUTOR"
	envLogLevel      = "LOG_LEVEL"
)

// applyEnvOverrides 应用环境变量覆盖配置
//
// 环境变量优先级高于配置文件，但低于命令行参数。
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv(envPrefix + envListen); v != "" {
		cfg.Node.ClientAddr = v
		cfg.Node.InterNodeAddr = v
		cfg.Discovery.BindAddr = v
	}
	if v := os.Getenv(envPrefix + envClientPort); v != "" {
		if port, err := strconv.ParseUint(v, 10, 16); err == nil {
			cfg.Node.ClientPort = uint16(port)
		}
	}
	if v := os.Getenv(envPrefix + envInterNodePort); v != "" {
		if port, err := strconv.ParseUint(v, 10, 16); err == nil {
			cfg.Node.InterNodePort = uint16(port)
		}
	}
	if v := os.Getenv(envPrefix + envDiscovery); v != "" {
		cfg.Discovery.Enable = parseBool(v)
	}
	if v := os.Getenv(envPrefix + envKnownPeers); v != "" {
		cfg.KnownPeers = cfg.KnownPeers[:0]
		for _, p := range splitAndTrim(v, ",") {
			cfg.KnownPeers = append(cfg.KnownPeers, config.KnownPeer{Addr: p})
		}
	}
	if v := os.Getenv(envPrefix + envExecutor); v != "" {
		cfg.Executor.Name = v
	}
	if v := os.Getenv(envPrefix + envLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// ============================================================================
//                              辅助函数
// ============================================================================

// parseBool 解析布尔值字符串
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitAndTrim 分割字符串并去除空白
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值。
//
// 示例 JSON:
//
//	{
//	  "node": {"inter_node_addr": "10.0.0.5"},
//	  "discovery": {"enable": true, "bind_addr": "10.0.0.5"},
//	  "queue": {"workers": 8}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return FromJSON(data)
}

// ToJSON 将配置序列化为缩进 JSON
func ToJSON(cfg *Config) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}

// CloneConfig 克隆配置
//
// 创建配置的深拷贝，用于安全地修改配置而不影响原始配置。
func CloneConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}
	cloned := *cfg
	if cfg.KnownPeers != nil {
		cloned.KnownPeers = append([]KnownPeer(nil), cfg.KnownPeers...)
	}
	return &cloned
}

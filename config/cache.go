package config

// CacheConfig 结果缓存配置
type CacheConfig struct {
	// AllowOverwrite 是否允许覆盖已有结果
	//
	// 覆盖写不会触发复制通知。
	AllowOverwrite bool `json:"allow_overwrite"`
}

// DefaultCacheConfig 返回默认缓存配置
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{AllowOverwrite: false}
}

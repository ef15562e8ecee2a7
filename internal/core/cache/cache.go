// Package cache 实现可观察的结果缓存
//
// 键为任务标签，值为 types.ResultEntry。写入新键时通知订阅者，
// 覆盖写与本地写不通知。读写都做值拷贝。
package cache

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dep2p/go-tasknode/internal/core/eventbus"
	"github.com/dep2p/go-tasknode/pkg/lib/log"
	"github.com/dep2p/go-tasknode/pkg/types"
)

var logger = log.Logger("core/cache")

var (
	// ErrKeyExists 键已存在且不允许覆盖
	ErrKeyExists = errors.New("cache: key exists")

	// ErrNotFound 键不存在
	ErrNotFound = errors.New("cache: key not found")

	// ErrEmptyKey 键为空
	ErrEmptyKey = errors.New("cache: empty key")
)

// Entry 缓存写入事件
type Entry struct {
	Key   string
	Value types.ResultEntry
}

// Option 缓存选项
type Option func(*Cache)

// WithOverwrite 允许覆盖已有键
func WithOverwrite(allow bool) Option {
	return func(c *Cache) { c.allowOverwrite = allow }
}

// Cache 可观察的结果缓存
type Cache struct {
	mu      sync.RWMutex
	entries map[string]types.ResultEntry

	allowOverwrite bool
	feed           *eventbus.Feed[Entry]
}

// New 创建空缓存
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]types.ResultEntry),
		feed:    eventbus.NewFeed[Entry]("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Write 写入结果
//
// 键已存在时返回 ErrKeyExists，除非允许覆盖；覆盖写不通知。
// 新键且 localOnly 为 false 时恰好通知一次。
func (c *Cache) Write(key string, value types.ResultEntry, localOnly bool) error {
	if key == "" {
		return ErrEmptyKey
	}
	value = value.Clone()

	c.mu.Lock()
	if _, ok := c.entries[key]; ok {
		if !c.allowOverwrite {
			c.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrKeyExists, key)
		}
		c.entries[key] = value
		c.mu.Unlock()
		logger.Debug("覆盖缓存项", "key", key)
		return nil
	}
	c.entries[key] = value
	c.mu.Unlock()

	if !localOnly {
		c.feed.Publish(Entry{Key: key, Value: value.Clone()})
	}
	return nil
}

// Read 读取结果
func (c *Cache) Read(key string) (types.ResultEntry, error) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return types.ResultEntry{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return v.Clone(), nil
}

// Contains 键是否存在
func (c *Cache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Remove 删除键，不通知订阅者
//
// localOnly 仅用于日志，转发由调用方决定。
func (c *Cache) Remove(key string, localOnly bool) bool {
	c.mu.Lock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()

	if ok {
		logger.Debug("删除缓存项", "key", key, "localOnly", localOnly)
	}
	return ok
}

// Clear 清空缓存，不通知订阅者
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]types.ResultEntry)
	c.mu.Unlock()
}

// Len 返回缓存项数量
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys 返回排序后的键列表
func (c *Cache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Snapshot 返回全部缓存项的深拷贝
func (c *Cache) Snapshot() types.CacheSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return types.CacheSnapshot(c.entries).Clone()
}

// Replace 用快照整体替换缓存内容，不通知订阅者
//
// 与单键操作使用同一把锁，替换对并发读写是原子的。
func (c *Cache) Replace(snapshot types.CacheSnapshot) {
	next := make(map[string]types.ResultEntry, len(snapshot))
	for k, v := range snapshot {
		if k == "" {
			continue
		}
		next[k] = v.Clone()
	}

	c.mu.Lock()
	c.entries = next
	c.mu.Unlock()
}

// Subscribe 订阅新写入的结果
func (c *Cache) Subscribe(o eventbus.Observer[Entry]) (*eventbus.Subscription[Entry], error) {
	return c.feed.Subscribe(o)
}

// Close 结束所有订阅
func (c *Cache) Close() {
	c.feed.Close()
}

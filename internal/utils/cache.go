package utils

import (
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// 进程内 LRU 缓存，给详情页、趋势榜和排行榜的读路径做短 TTL 兜底。
// 排序分数本身是纯函数按需算的，缓存的是查库和重排的结果。

type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

type GlobalCache struct {
	entries *lru.Cache[string, cacheEntry]
}

var (
	cacheInstance *GlobalCache
	cacheOnce     sync.Once
)

// GetCache 获取单例缓存
func GetCache() *GlobalCache {
	cacheOnce.Do(func() {
		l, err := lru.New[string, cacheEntry](500)
		if err != nil {
			log.Fatalf("Failed to create LRU cache: %v", err)
		}
		cacheInstance = &GlobalCache{entries: l}
	})
	return cacheInstance
}

// Set 写入缓存，ttl 过后视为不存在
func (c *GlobalCache) Set(key string, data interface{}, ttl time.Duration) {
	c.entries.Add(key, cacheEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// Get 读取缓存，不存在或已过期返回 nil
func (c *GlobalCache) Get(key string) interface{} {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return nil
	}
	return entry.data
}

// Delete 主动失效，写路径在计数变化后调用
func (c *GlobalCache) Delete(key string) {
	c.entries.Remove(key)
}

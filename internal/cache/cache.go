package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache 是读穿透、写失效的旁路缓存，永远不是数据的权威来源。
// 任何缓存错误都只记日志，绝不让请求失败
type Cache struct {
	client redisClient
}

// redisClient 是本层用到的命令子集，*redis.Client 实现了它
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Keys(ctx context.Context, pattern string) *redis.StringSliceCmd
}

func New(client redisClient) *Cache {
	return &Cache{client: client}
}

// GetJSON 命中时把缓存值反序列化到 v 并返回 true，
// 未命中和任何缓存错误都当作 miss 处理
func (c *Cache) GetJSON(ctx context.Context, key string, v any) bool {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("缓存读取失败，回退到数据库", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal([]byte(val), v); err != nil {
		slog.Warn("缓存值反序列化失败", "key", key, "error", err)
		return false
	}

	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Warn("缓存值序列化失败", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		slog.Warn("缓存写入失败", "key", key, "error", err)
	}
}

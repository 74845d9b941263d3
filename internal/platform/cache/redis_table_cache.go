package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/usecase"
)

// RedisTableCache stores wide tables in Redis so that several server replicas
// share one memo. A process-local MemoryTableCache sits in front of Redis and
// expires its entries with the same TTL, so a refresh applies to every replica.
type RedisTableCache struct {
	rdb       *redis.Client
	local     *MemoryTableCache
	ttl       func() time.Duration
	namespace string
}

var _ usecase.TableCache = (*RedisTableCache)(nil)

// NewRedisTableCache creates a Redis-backed cache.
// If ttl is nil, entries expire after 5 minutes. If namespace is empty, it uses "prices".
// A nil rdb turns the cache into a plain in-memory cache.
func NewRedisTableCache(rdb *redis.Client, ttl func() time.Duration, namespace string) *RedisTableCache {
	if ttl == nil {
		ttl = func() time.Duration { return 5 * time.Minute }
	}
	if namespace == "" {
		namespace = "prices"
	}
	return &RedisTableCache{
		rdb:       rdb,
		local:     NewExpiringMemoryTableCache(ttl),
		ttl:       ttl,
		namespace: namespace,
	}
}

// Name returns the backend name reported by the health endpoint.
func (c *RedisTableCache) Name() string {
	if c.rdb == nil {
		return "memory"
	}
	return "redis"
}

// Get checks the local cache, then Redis.
func (c *RedisTableCache) Get(ctx context.Context, key string) (*entity.WideTable, bool) {
	if t, ok := c.local.Get(ctx, key); ok {
		return t, true
	}
	// Bypass Redis if it is not configured
	if c.rdb == nil {
		return nil, false
	}

	rkey := c.cacheKey(key)
	b, err := c.rdb.Get(ctx, rkey).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("redis get failed", "key", rkey, "error", err)
		}
		return nil, false
	}

	var t entity.WideTable
	if err := json.Unmarshal(b, &t); err != nil || len(t.Rows) == 0 {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, rkey).Err()
		return nil, false
	}
	c.local.Set(ctx, key, &t)
	return &t, true
}

// Set stores the table locally and in Redis (best effort).
func (c *RedisTableCache) Set(ctx context.Context, key string, table *entity.WideTable) {
	if table == nil {
		return
	}
	c.local.Set(ctx, key, table)
	if c.rdb == nil {
		return
	}
	b, err := json.Marshal(table)
	if err != nil {
		slog.Warn("failed to marshal wide table", "error", err)
		return
	}
	rkey := c.cacheKey(key)
	if err := c.rdb.Set(ctx, rkey, b, c.ttl()).Err(); err != nil {
		slog.Warn("redis set failed", "key", rkey, "error", err)
	}
}

// cacheKey generates the Redis key for a table key.
func (c *RedisTableCache) cacheKey(key string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(key))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}

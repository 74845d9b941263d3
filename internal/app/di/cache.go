package di

import (
	"context"
	"log/slog"
	"time"

	"stock_dashboard/internal/platform/cache"
	"stock_dashboard/internal/platform/config"
	infraredis "stock_dashboard/internal/platform/redis"

	"github.com/redis/go-redis/v9"
)

// NewTableCache returns the wide-table cache. Redis is used when configured and reachable;
// otherwise the cache stays in process memory. The returned close function is never nil.
func NewTableCache(ctx context.Context, cfg *config.Config) (*cache.RedisTableCache, func() error) {
	noop := func() error { return nil }

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		c, err := infraredis.NewRedisClient(ctx, infraredis.Config{
			Host:     cfg.Cache.RedisHost,
			Port:     cfg.Cache.RedisPort,
			Password: cfg.Cache.RedisPassword,
		})
		if err != nil {
			slog.Warn("Redis unavailable. Running with in-memory cache only.", "error", err)
		} else {
			rdb = c
		}
	}

	loc := cfg.Location()
	hour := cfg.Cache.RefreshHour
	ttl := func() time.Duration { return cache.TimeUntilNextHour(hour, loc) }

	tc := cache.NewRedisTableCache(rdb, ttl, "prices")
	if rdb == nil {
		return tc, noop
	}
	return tc, rdb.Close
}

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/chrisdamba/flighttrouble/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// RedisCache is a cache-aside store for flight reads. Callers treat cache
// errors as misses; the database stays the source of truth.
type RedisCache struct {
	c   *redis.Client
	ttl time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{c: rdb, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.IncCacheMiss()
			return nil, false, nil
		}
		return nil, false, err
	}
	metrics.IncCacheHit()
	return b, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return r.c.Set(ctx, key, value, r.ttl).Err()
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.c.Del(ctx, keys...).Err()
}

func (r *RedisCache) Close() error { return r.c.Close() }

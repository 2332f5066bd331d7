package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache is a read-through, write-through cache in front of another
// Store.  Redis errors never fail a request: reads fall back to the inner
// store and stale keys are dropped on write.
type RedisCache struct {
	inner  Store
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	log    *zap.Logger
}

var _ Store = (*RedisCache)(nil)

// NewRedisCache wraps inner with a Redis cache.  When rdb is nil the inner
// store is returned unchanged so callers can degrade without branching.
func NewRedisCache(inner Store, rdb *redis.Client, prefix string, ttl time.Duration, log *zap.Logger) Store {
	if rdb == nil {
		return inner
	}
	if prefix == "" {
		prefix = "collections"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisCache{inner: inner, rdb: rdb, prefix: prefix, ttl: ttl, log: log}
}

func (c *RedisCache) key(k string) string { return c.prefix + ":" + k }

func (c *RedisCache) Read(ctx context.Context, key string) ([]byte, bool, error) {
	bs, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err == nil {
		return bs, true, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.log.Warn("collection cache read failed", zap.String("key", key), zap.Error(err))
	}
	payload, ok, err := c.inner.Read(ctx, key)
	if err != nil || !ok {
		return payload, ok, err
	}
	if err := c.rdb.Set(ctx, c.key(key), payload, c.ttl).Err(); err != nil {
		c.log.Warn("collection cache fill failed", zap.String("key", key), zap.Error(err))
	}
	return payload, true, nil
}

func (c *RedisCache) Write(ctx context.Context, key string, payload []byte) error {
	if err := c.inner.Write(ctx, key, payload); err != nil {
		// the inner write may have partially applied; drop the cached copy
		_ = c.rdb.Del(ctx, c.key(key)).Err()
		return err
	}
	if err := c.rdb.Set(ctx, c.key(key), payload, c.ttl).Err(); err != nil {
		c.log.Warn("collection cache write failed", zap.String("key", key), zap.Error(err))
		_ = c.rdb.Del(ctx, c.key(key)).Err()
	}
	return nil
}

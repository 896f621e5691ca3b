package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/pkg/logger"
)

// RedisCache fails safe: an unreachable redis behaves like an empty cache and never fails
// the request. A nil *RedisCache is a valid, always-missing cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

var _ service.Cache = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: log}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		c.logger.Warn("Redis get failed, treating as miss", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return res, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("Redis set failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Redis delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
	return nil
}

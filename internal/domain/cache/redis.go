package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"flashcard-server-go/internal/platform/logging"
)

type redisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
	prefix     string
	logger     *logging.Logger
}

// NewRedis constructs a redis-backed cache.
func NewRedis(cfg Config, logger *logging.Logger) (Cache, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	defaultTTL := cfg.DefaultTTL
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &redisCache{
		client:     client,
		defaultTTL: defaultTTL,
		prefix:     cfg.Redis.Prefix,
		logger:     logger,
	}, nil
}

func (c *redisCache) key(key string) string {
	return c.prefix + key
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnTag("cache", "redis get %s failed: %v", key, err)
		}
		return "", false
	}
	return value, true
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		c.logger.WarnTag("cache", "redis set %s failed: %v", key, err)
	}
}

func (c *redisCache) Del(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		c.logger.WarnTag("cache", "redis del %s failed: %v", key, err)
	}
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

package cache

import (
	"context"
	"time"
)

// Cache is a best-effort key-value store with per-entry TTL. It is an
// optimization, never a source of truth: backend failures degrade to a miss
// on reads and to a no-op on writes, and are only logged. Get must never
// return an entry whose TTL has elapsed.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Del(ctx context.Context, key string)
	Close() error
}

// Config describes the high level cache selection parameters.
type Config struct {
	Driver     string
	DefaultTTL time.Duration
	Redis      *RedisConfig
	Memory     *MemoryConfig
}

// MemoryConfig holds in-memory tuning knobs.
type MemoryConfig struct {
	GCInterval time.Duration
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

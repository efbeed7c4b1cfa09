package cache

import (
	"context"
	"sync"
	"time"

	"flashcard-server-go/internal/platform/logging"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type memoryCache struct {
	items       map[string]memoryEntry
	mutex       sync.RWMutex
	defaultTTL  time.Duration
	cleanupFreq time.Duration
	logger      *logging.Logger
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewMemory builds an in-memory cache backend.
func NewMemory(cfg Config, logger *logging.Logger) Cache {
	if logger == nil {
		logger = logging.DefaultLogger
	}
	defaultTTL := cfg.DefaultTTL
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	cleanup := 5 * time.Minute
	if cfg.Memory != nil && cfg.Memory.GCInterval > 0 {
		cleanup = cfg.Memory.GCInterval
	}
	c := &memoryCache{
		items:       make(map[string]memoryEntry),
		defaultTTL:  defaultTTL,
		cleanupFreq: cleanup,
		logger:      logger,
		stop:        make(chan struct{}),
	}
	go c.gcLoop()
	return c
}

func (c *memoryCache) gcLoop() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) cleanupExpired() {
	now := time.Now()
	c.mutex.Lock()
	for key, entry := range c.items {
		if now.After(entry.expiresAt) {
			delete(c.items, key)
		}
	}
	c.mutex.Unlock()
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mutex.RLock()
	entry, ok := c.items[key]
	c.mutex.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		c.Del(context.Background(), key)
		return "", false
	}
	return entry.value, true
}

func (c *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mutex.Lock()
	c.items[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	c.mutex.Unlock()
}

func (c *memoryCache) Del(_ context.Context, key string) {
	c.mutex.Lock()
	delete(c.items, key)
	c.mutex.Unlock()
}

func (c *memoryCache) Close() error {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
	return nil
}

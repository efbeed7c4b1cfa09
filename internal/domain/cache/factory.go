package cache

import (
	"fmt"

	"flashcard-server-go/internal/platform/logging"
)

// Driver identifiers supported by the cache domain.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// New creates a cache backend based on the provided configuration.
func New(cfg Config, logger *logging.Logger) (Cache, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverMemory
	}

	switch driver {
	case DriverMemory:
		return NewMemory(cfg, logger), nil
	case DriverRedis:
		return NewRedis(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", driver)
	}
}

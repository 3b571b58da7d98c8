package cache

import (
	"context"
	"time"
)

// NoOpCache is a cache implementation that does nothing.
// Used when caching is disabled (CACHE_PROVIDER=none) - all operations
// succeed but every lookup is a miss.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetQueryResult always returns nil (cache miss)
func (c *NoOpCache) GetQueryResult(ctx context.Context, key string) (*QueryResult, error) {
	return nil, nil
}

// SetQueryResult does nothing and always succeeds
func (c *NoOpCache) SetQueryResult(ctx context.Context, key string, result *QueryResult, ttl time.Duration) error {
	return nil
}

func (c *NoOpCache) Purge(ctx context.Context) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMemorySize = 1024

// MemoryCache is a size-bounded in-process cache. Each entry keeps its own
// expiry, which is checked on lookup.
type MemoryCache struct {
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

type memoryEntry struct {
	columns   [][]float64
	expiresAt time.Time
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock overrides the time source, used by tests to step past expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewMemoryCache creates an LRU-backed cache holding at most size entries.
func NewMemoryCache(size int, opts ...MemoryOption) (*MemoryCache, error) {
	if size <= 0 {
		size = defaultMemorySize
	}
	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("memory cache: %w", err)
	}
	c := &MemoryCache{entries: entries, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetQueryResult returns nil on miss; stale entries are evicted here.
func (c *MemoryCache) GetQueryResult(_ context.Context, key string) (*QueryResult, error) {
	e, ok := c.entries.Get(key)
	if !ok {
		return nil, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.entries.Remove(key)
		return nil, nil
	}
	return &QueryResult{Columns: cloneColumns(e.columns)}, nil
}

func (c *MemoryCache) SetQueryResult(_ context.Context, key string, result *QueryResult, ttl time.Duration) error {
	if ttl <= 0 || result == nil {
		return nil
	}
	c.entries.Add(key, memoryEntry{
		columns:   cloneColumns(result.Columns),
		expiresAt: c.now().Add(ttl),
	})
	return nil
}

func (c *MemoryCache) Purge(_ context.Context) error {
	c.entries.Purge()
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}

func (c *MemoryCache) Close() error {
	c.entries.Purge()
	return nil
}

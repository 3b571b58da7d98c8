package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Cache stores computed embedding tables for a bounded time.
type Cache interface {
	// GetQueryResult retrieves a cached result by key.
	// Returns nil if not found or expired.
	GetQueryResult(ctx context.Context, key string) (*QueryResult, error)

	// SetQueryResult stores a result with TTL. A non-positive TTL stores nothing.
	SetQueryResult(ctx context.Context, key string, result *QueryResult, ttl time.Duration) error

	// Purge removes every cached result.
	Purge(ctx context.Context) error

	// Close releases the backend.
	Close() error
}

// QueryResult is a cached embedding table, one column per input item.
type QueryResult struct {
	Columns [][]float64 `json:"columns"`
}

// GenerateCacheKey derives the key for a serialized request body and ttl
// window. The same body cached under different windows gets separate entries.
func GenerateCacheKey(body []byte, ttl time.Duration) string {
	h := sha256.New()
	h.Write(body)
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(int64(ttl), 10)))
	return hex.EncodeToString(h.Sum(nil))
}

func cloneColumns(cols [][]float64) [][]float64 {
	if cols == nil {
		return nil
	}
	out := make([][]float64, len(cols))
	for i, c := range cols {
		out[i] = append([]float64(nil), c...)
	}
	return out
}

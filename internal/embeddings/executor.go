package embeddings

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"embedding-conn/internal/cache"
)

// DefaultTTL is how long results are cached when the caller sets no TTL.
const DefaultTTL = time.Hour

// Executor runs embedding queries through a Transport with result caching.
type Executor struct {
	transport Transport
	cache     cache.Cache
	log       *slog.Logger
	model     string
	ttl       time.Duration
	inflight  singleflight.Group
	newID     func() string
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithDefaultModel sets the model used when a query does not override it.
func WithDefaultModel(model string) ExecutorOption {
	return func(e *Executor) {
		if model != "" {
			e.model = model
		}
	}
}

// WithDefaultTTL sets the cache window used when a query sets none.
func WithDefaultTTL(ttl time.Duration) ExecutorOption {
	return func(e *Executor) { e.ttl = ttl }
}

// NewExecutor builds an executor. A nil cache disables caching.
func NewExecutor(t Transport, c cache.Cache, log *slog.Logger, opts ...ExecutorOption) *Executor {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if log == nil {
		log = slog.Default()
	}
	e := &Executor{
		transport: t,
		cache:     c,
		log:       log,
		model:     DefaultModel,
		ttl:       DefaultTTL,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type queryConfig struct {
	ttl    time.Duration
	params map[string]any
}

// QueryOption adjusts a single query.
type QueryOption func(*queryConfig)

// WithTTL sets the cache window for this query; zero or negative skips the cache.
func WithTTL(ttl time.Duration) QueryOption {
	return func(c *queryConfig) { c.ttl = ttl }
}

// WithParams merges passthrough request parameters.
func WithParams(params map[string]any) QueryOption {
	return func(c *queryConfig) {
		for k, v := range params {
			c.params[k] = v
		}
	}
}

// WithParam sets one passthrough request parameter.
func WithParam(key string, value any) QueryOption {
	return func(c *queryConfig) { c.params[key] = value }
}

// WithModel overrides the model for this query.
func WithModel(model string) QueryOption {
	return WithParam(modelField, model)
}

// Query returns the embedding table for q. Identical requests within the
// TTL window are served from the cache without a network call.
func (e *Executor) Query(ctx context.Context, q Query, opts ...QueryOption) (Table, error) {
	if q.Len() == 0 {
		return Table{}, ErrEmptyQuery
	}
	cfg := queryConfig{ttl: e.ttl, params: map[string]any{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	body, expected, err := BuildRequestBody(q, e.model, cfg.params)
	if err != nil {
		return Table{}, err
	}
	log := e.log.With("query_id", e.newID(), "kind", q.Kind().String(), "items", q.Len())

	if cfg.ttl <= 0 {
		return e.fetch(ctx, log, body, expected)
	}

	key := cache.GenerateCacheKey(body, cfg.ttl)
	if cached, err := e.cache.GetQueryResult(ctx, key); err != nil {
		log.Warn("cache read failed", "err", err)
	} else if cached != nil {
		log.Info("cache hit", "columns", len(cached.Columns))
		return NewTable(cached.Columns), nil
	}

	ch := e.inflight.DoChan(key, func() (any, error) {
		// Shared by every caller waiting on key: it outlives the caller that
		// started it and is bounded by the session timeout.
		fetchCtx := context.WithoutCancel(ctx)
		shared := e.log.With("cache_key", key, "kind", q.Kind().String(), "items", q.Len())
		table, err := e.fetch(fetchCtx, shared, body, expected)
		if err != nil {
			return nil, err
		}
		if err := e.cache.SetQueryResult(fetchCtx, key, &cache.QueryResult{Columns: table.Columns}, cfg.ttl); err != nil {
			// Log cache write failure but don't fail the query
			shared.Warn("failed to cache result", "err", err)
		}
		return table, nil
	})

	select {
	case <-ctx.Done():
		log.Warn("query abandoned before the embeddings response arrived", "err", ctx.Err())
		return Table{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			log.Error("embedding query failed", "err", res.Err, "joined", res.Shared)
			return Table{}, res.Err
		}
		table := res.Val.(Table).Clone()
		log.Info("embedding query served", "columns", table.NumColumns(), "joined", res.Shared)
		return table, nil
	}
}

func (e *Executor) fetch(ctx context.Context, log *slog.Logger, body []byte, expected int) (Table, error) {
	start := time.Now()
	raw, err := e.transport.Post(ctx, body)
	if err != nil {
		log.Error("embedding request failed", "err", err)
		return Table{}, err
	}
	table, err := ParseResponse(raw, expected)
	if err != nil {
		log.Error("embedding response rejected", "err", err)
		return Table{}, err
	}
	log.Info("embedding query completed",
		"columns", table.NumColumns(),
		"rows", table.NumRows(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return table, nil
}

// Purge drops every cached table.
func (e *Executor) Purge(ctx context.Context) error {
	return e.cache.Purge(ctx)
}

// Package embeddings turns queries into embedding tables: it builds the
// request body, consults the cache, posts once through a Transport and
// parses the provider's JSON response.
package embeddings

import (
	"context"
	"errors"
)

// DefaultModel is sent when the caller does not override "model".
const DefaultModel = "text-embedding-ada-002"

const (
	inputField = "input"
	modelField = "model"
)

// ErrEmptyQuery is returned for queries with no input items.
var ErrEmptyQuery = errors.New("embeddings: query has no input items")

// Querier runs embedding queries; *Executor is the production implementation.
type Querier interface {
	Query(ctx context.Context, q Query, opts ...QueryOption) (Table, error)
	Purge(ctx context.Context) error
}

var _ Querier = (*Executor)(nil)

// Transport posts a serialized request body to the embeddings endpoint and
// returns the raw response body.
type Transport interface {
	Post(ctx context.Context, body []byte) ([]byte, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, body []byte) ([]byte, error)

func (f TransportFunc) Post(ctx context.Context, body []byte) ([]byte, error) {
	return f(ctx, body)
}

package embeddings

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTransport is a mock implementation of Transport using testify/mock.
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Post(ctx context.Context, body []byte) ([]byte, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockQuerier is a mock implementation of Querier using testify/mock.
// Query options are passed through as a single argument; match them with
// mock.Anything.
type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) Query(ctx context.Context, q Query, opts ...QueryOption) (Table, error) {
	args := m.Called(ctx, q, opts)
	return args.Get(0).(Table), args.Error(1)
}

func (m *MockQuerier) Purge(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

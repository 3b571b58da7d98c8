package tokenizer

import "github.com/stretchr/testify/mock"

// MockEncoder is a mock implementation of Encoder using testify/mock.
type MockEncoder struct {
	mock.Mock
}

func (m *MockEncoder) EncodeAll(texts []string) ([][]int, error) {
	args := m.Called(texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]int), args.Error(1)
}

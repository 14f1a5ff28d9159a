package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockKeyValueStore is a mock implementation of port.KeyValueStore.
type MockKeyValueStore struct {
	mock.Mock
}

func (m *MockKeyValueStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockKeyValueStore) SetItem(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockKeyValueStore) RemoveItem(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockKeyValueStore) GetAllKeys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockKeyValueStore) MultiRemove(ctx context.Context, keys []string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

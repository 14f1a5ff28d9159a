package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"studylink/internal/port"
)

// MockObjectStorage is a mock implementation of port.ObjectStorage.
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.UploadOutput), args.Error(1)
}

func (m *MockObjectStorage) GetPublicURL(ctx context.Context, bucket, path string) (string, error) {
	args := m.Called(ctx, bucket, path)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) CreateSignedURL(ctx context.Context, bucket, path string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, bucket, path, expiresIn)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) ListBuckets(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockObjectStorage) Remove(ctx context.Context, bucket string, paths []string) error {
	args := m.Called(ctx, bucket, paths)
	return args.Error(0)
}

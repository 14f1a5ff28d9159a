package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"studylink/internal/domain"
)

// mockUploadService is a testify mock of UploadService for tests of the
// services layered on top of the pipeline.
type mockUploadService struct {
	mock.Mock
}

func (m *mockUploadService) Upload(ctx context.Context, input UploadInput) (*domain.UploadResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}

// mockCacheService is a testify mock of CacheService.
type mockCacheService struct {
	mock.Mock
}

func (m *mockCacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockCacheService) SetWithStrategy(ctx context.Context, key string, value any, strategy domain.CacheStrategy) error {
	args := m.Called(ctx, key, value, strategy)
	return args.Error(0)
}

func (m *mockCacheService) Get(ctx context.Context, key string, out any) bool {
	args := m.Called(ctx, key, out)
	return args.Bool(0)
}

func (m *mockCacheService) Has(ctx context.Context, key string) bool {
	args := m.Called(ctx, key)
	return args.Bool(0)
}

func (m *mockCacheService) Remove(ctx context.Context, key string) {
	m.Called(ctx, key)
}

func (m *mockCacheService) CleanupExpired(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}

func (m *mockCacheService) CleanupOldest(ctx context.Context, n int) int {
	args := m.Called(ctx, n)
	return args.Int(0)
}

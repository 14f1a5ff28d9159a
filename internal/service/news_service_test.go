package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studylink/internal/config"
	"studylink/internal/domain"
	"studylink/internal/storage/memory"
	"studylink/mocks"
)

func TestNewsFeedCacheAside(t *testing.T) {
	repo := new(mocks.MockNewsRepository)
	cache := NewCacheService(memory.NewKVStore(), &config.CacheConfig{
		Namespace:        "test_cache",
		MaxBytes:         1 << 20,
		CleanupThreshold: 0.85,
		EvictFraction:    0.2,
	})
	svc := NewNewsService(repo, cache)
	ctx := context.Background()

	items := []domain.NewsItem{
		{ID: uuid.New(), Title: "Exam schedule", Body: "..."},
		{ID: uuid.New(), Title: "Library hours", Body: "..."},
	}
	repo.On("List", mock.Anything, 50).Return(items, nil).Once()

	// First read misses the cache and hits the repository.
	got, err := svc.GetFeed(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Second read is served from cache; the repo expectation is Once.
	got, err = svc.GetFeed(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, items[0].Title, got[0].Title)
	repo.AssertNumberOfCalls(t, "List", 1)
}

func TestNewsPublishInvalidatesFeed(t *testing.T) {
	repo := new(mocks.MockNewsRepository)
	cache := NewCacheService(memory.NewKVStore(), &config.CacheConfig{
		Namespace:        "test_cache",
		MaxBytes:         1 << 20,
		CleanupThreshold: 0.85,
		EvictFraction:    0.2,
	})
	svc := NewNewsService(repo, cache)
	ctx := context.Background()

	repo.On("List", mock.Anything, 50).Return([]domain.NewsItem{}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.GetFeed(ctx, 50)
	require.NoError(t, err)
	assert.True(t, cache.Has(ctx, newsFeedCacheKey))

	item := &domain.NewsItem{Title: "New gym", Body: "...", PublishedAt: time.Now()}
	require.NoError(t, svc.Publish(ctx, item))
	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.False(t, cache.Has(ctx, newsFeedCacheKey), "publishing must invalidate the cached feed")
}

func TestNewsPublishRepoErrorKeepsCache(t *testing.T) {
	repo := new(mocks.MockNewsRepository)
	cache := new(mockCacheService)
	svc := NewNewsService(repo, cache)

	repo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	err := svc.Publish(context.Background(), &domain.NewsItem{Title: "x", Body: "y"})
	require.Error(t, err)
	cache.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studylink/internal/config"
	"studylink/internal/domain"
	"studylink/internal/storage/memory"
	"studylink/mocks"
)

func newGroupTestService(repo *mocks.MockGroupRepository) GroupService {
	cache := NewCacheService(memory.NewKVStore(), &config.CacheConfig{
		Namespace:        "test_cache",
		MaxBytes:         1 << 20,
		CleanupThreshold: 0.85,
		EvictFraction:    0.2,
	})
	return NewGroupService(repo, cache)
}

func TestGroupGetByIDCacheAside(t *testing.T) {
	repo := new(mocks.MockGroupRepository)
	svc := newGroupTestService(repo)
	ctx := context.Background()

	group := &domain.StudyGroup{ID: uuid.New(), Name: "Linear Algebra", OwnerID: uuid.New()}
	repo.On("GetByID", mock.Anything, group.ID).Return(group, nil).Once()

	got, err := svc.GetByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.Name, got.Name)

	// Second read is served from cache; the repo expectation is Once.
	got, err = svc.GetByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.ID)
	repo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestGroupListFirstPageCached(t *testing.T) {
	repo := new(mocks.MockGroupRepository)
	svc := newGroupTestService(repo)
	ctx := context.Background()

	page := []domain.StudyGroup{
		{ID: uuid.New(), Name: "Physics"},
		{ID: uuid.New(), Name: "Chemistry"},
	}
	repo.On("List", mock.Anything, 0, 20).Return(page, 2, nil).Once()
	repo.On("List", mock.Anything, 20, 20).Return([]domain.StudyGroup{}, 2, nil)

	got, total, err := svc.List(ctx, 0, 20)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, total)

	// First page comes back from cache.
	got, total, err = svc.List(ctx, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, "Physics", got[0].Name)
	assert.Equal(t, 2, total)
	repo.AssertNumberOfCalls(t, "List", 1)

	// Later pages always hit the repository.
	_, _, err = svc.List(ctx, 20, 20)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 2)
}

func TestGroupCreateInvalidatesList(t *testing.T) {
	repo := new(mocks.MockGroupRepository)
	svc := newGroupTestService(repo)
	ctx := context.Background()

	repo.On("List", mock.Anything, 0, 20).Return([]domain.StudyGroup{}, 0, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, _, err := svc.List(ctx, 0, 20)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 1)

	group := &domain.StudyGroup{Name: "Statistics", OwnerID: uuid.New()}
	require.NoError(t, svc.Create(ctx, group))
	assert.NotEqual(t, uuid.Nil, group.ID, "Create assigns an ID when absent")

	// The invalidated list is re-fetched on the next read.
	_, _, err = svc.List(ctx, 0, 20)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 2)
}

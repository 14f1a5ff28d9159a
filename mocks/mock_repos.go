package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"studylink/internal/domain"
)

// MockUserRepository is a mock implementation of port.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockResourceRepository is a mock implementation of port.ResourceRepository.
type MockResourceRepository struct {
	mock.Mock
}

func (m *MockResourceRepository) Create(ctx context.Context, res *domain.Resource) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *MockResourceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resource), args.Error(1)
}

func (m *MockResourceRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.Resource, int, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Resource), args.Int(1), args.Error(2)
}

func (m *MockResourceRepository) ListByGroup(ctx context.Context, groupID uuid.UUID, offset, limit int) ([]domain.Resource, int, error) {
	args := m.Called(ctx, groupID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Resource), args.Int(1), args.Error(2)
}

func (m *MockResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockResourceRepository) UpdateThumbnailByPath(ctx context.Context, bucket, storedPath, thumbnailURL string) error {
	args := m.Called(ctx, bucket, storedPath, thumbnailURL)
	return args.Error(0)
}

// MockNewsRepository is a mock implementation of port.NewsRepository.
type MockNewsRepository struct {
	mock.Mock
}

func (m *MockNewsRepository) Create(ctx context.Context, item *domain.NewsItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockNewsRepository) List(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NewsItem), args.Error(1)
}

// MockGroupRepository is a mock implementation of port.GroupRepository.
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(ctx context.Context, group *domain.StudyGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudyGroup), args.Error(1)
}

func (m *MockGroupRepository) List(ctx context.Context, offset, limit int) ([]domain.StudyGroup, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.StudyGroup), args.Int(1), args.Error(2)
}

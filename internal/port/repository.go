package port

import (
	"context"

	"github.com/google/uuid"

	"studylink/internal/domain"
)

// UserRepository manages user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ResourceRepository manages the uploaded-resource catalog.
type ResourceRepository interface {
	Create(ctx context.Context, res *domain.Resource) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Resource, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.Resource, int, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID, offset, limit int) ([]domain.Resource, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// UpdateThumbnailByPath writes the thumbnail URL onto the catalog record
	// stored at bucket/path. Returns domain.ErrNotFound when no record
	// matches, in which case nothing is written.
	UpdateThumbnailByPath(ctx context.Context, bucket, storedPath, thumbnailURL string) error
}

// NewsRepository manages news feed entries.
type NewsRepository interface {
	Create(ctx context.Context, item *domain.NewsItem) error
	List(ctx context.Context, limit int) ([]domain.NewsItem, error)
}

// GroupRepository manages study groups.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.StudyGroup) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyGroup, error)
	List(ctx context.Context, offset, limit int) ([]domain.StudyGroup, int, error)
}

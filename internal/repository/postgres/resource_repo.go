package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"studylink/internal/domain"
	"studylink/internal/port"
)

type resourceRepo struct {
	db *sqlx.DB
}

// NewResourceRepo creates a new PostgreSQL-backed ResourceRepository.
func NewResourceRepo(db *sqlx.DB) port.ResourceRepository {
	return &resourceRepo{db: db}
}

func (r *resourceRepo) Create(ctx context.Context, res *domain.Resource) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	now := time.Now().UTC()
	res.CreatedAt = now
	res.UpdatedAt = now

	query := `INSERT INTO resources (id, owner_id, group_id, title, bucket, stored_path,
		content_type, file_size, public_url, thumbnail_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		res.ID, res.OwnerID, res.GroupID, res.Title, res.Bucket, res.StoredPath,
		res.ContentType, res.FileSize, res.PublicURL, res.ThumbnailURL,
		res.CreatedAt, res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("resourceRepo.Create: %w", err)
	}
	return nil
}

func (r *resourceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Resource, error) {
	var res domain.Resource
	err := r.db.GetContext(ctx, &res, "SELECT * FROM resources WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resourceRepo.GetByID: %w", err)
	}
	return &res, nil
}

func (r *resourceRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.Resource, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM resources WHERE owner_id = $1", ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("resourceRepo.ListByOwner count: %w", err)
	}

	var resources []domain.Resource
	err = r.db.SelectContext(ctx, &resources,
		"SELECT * FROM resources WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("resourceRepo.ListByOwner: %w", err)
	}
	return resources, total, nil
}

func (r *resourceRepo) ListByGroup(ctx context.Context, groupID uuid.UUID, offset, limit int) ([]domain.Resource, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM resources WHERE group_id = $1", groupID)
	if err != nil {
		return nil, 0, fmt.Errorf("resourceRepo.ListByGroup count: %w", err)
	}

	var resources []domain.Resource
	err = r.db.SelectContext(ctx, &resources,
		"SELECT * FROM resources WHERE group_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("resourceRepo.ListByGroup: %w", err)
	}
	return resources, total, nil
}

func (r *resourceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM resources WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("resourceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *resourceRepo) UpdateThumbnailByPath(ctx context.Context, bucket, storedPath, thumbnailURL string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE resources SET thumbnail_url = $1, updated_at = NOW()
		 WHERE bucket = $2 AND stored_path = $3`,
		thumbnailURL, bucket, storedPath)
	if err != nil {
		return fmt.Errorf("resourceRepo.UpdateThumbnailByPath: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

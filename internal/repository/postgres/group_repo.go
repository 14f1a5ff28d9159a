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

type groupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo creates a new PostgreSQL-backed GroupRepository.
func NewGroupRepo(db *sqlx.DB) port.GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *domain.StudyGroup) error {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	group.CreatedAt = time.Now().UTC()

	query := `INSERT INTO study_groups (id, name, description, owner_id, member_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		group.ID, group.Name, group.Description, group.OwnerID,
		group.MemberCount, group.CreatedAt)
	if err != nil {
		return fmt.Errorf("groupRepo.Create: %w", err)
	}
	return nil
}

func (r *groupRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyGroup, error) {
	var group domain.StudyGroup
	err := r.db.GetContext(ctx, &group, "SELECT * FROM study_groups WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("groupRepo.GetByID: %w", err)
	}
	return &group, nil
}

func (r *groupRepo) List(ctx context.Context, offset, limit int) ([]domain.StudyGroup, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM study_groups")
	if err != nil {
		return nil, 0, fmt.Errorf("groupRepo.List count: %w", err)
	}

	var groups []domain.StudyGroup
	err = r.db.SelectContext(ctx, &groups,
		"SELECT * FROM study_groups ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("groupRepo.List: %w", err)
	}
	return groups, total, nil
}

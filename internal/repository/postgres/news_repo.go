package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"studylink/internal/domain"
	"studylink/internal/port"
)

type newsRepo struct {
	db *sqlx.DB
}

// NewNewsRepo creates a new PostgreSQL-backed NewsRepository.
func NewNewsRepo(db *sqlx.DB) port.NewsRepository {
	return &newsRepo{db: db}
}

func (r *newsRepo) Create(ctx context.Context, item *domain.NewsItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	if item.PublishedAt.IsZero() {
		item.PublishedAt = now
	}

	query := `INSERT INTO news_items (id, title, body, image_url, published_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Title, item.Body, item.ImageURL, item.PublishedAt, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("newsRepo.Create: %w", err)
	}
	return nil
}

func (r *newsRepo) List(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	if limit <= 0 {
		limit = 50
	}
	var items []domain.NewsItem
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM news_items ORDER BY published_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("newsRepo.List: %w", err)
	}
	return items, nil
}

package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"studylink/internal/domain"
	"studylink/internal/port"
)

const newsFeedCacheKey = "news:feed"

// NewsService serves the student news feed with cache-aside reads.
type NewsService interface {
	GetFeed(ctx context.Context, limit int) ([]domain.NewsItem, error)
	Publish(ctx context.Context, item *domain.NewsItem) error
}

type newsService struct {
	repo  port.NewsRepository
	cache CacheService
}

// NewNewsService creates a new NewsService implementation.
func NewNewsService(repo port.NewsRepository, cache CacheService) NewsService {
	return &newsService{repo: repo, cache: cache}
}

func (s *newsService) GetFeed(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	var items []domain.NewsItem
	if s.cache.Get(ctx, newsFeedCacheKey, &items) {
		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}
		return items, nil
	}

	items, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("news.GetFeed: %w", err)
	}

	if err := s.cache.SetWithStrategy(ctx, newsFeedCacheKey, items, domain.CacheStrategyNewsFeed); err != nil {
		// Cache writes are advisory for reads; serve the DB result.
		log.Printf("news.GetFeed: cache write failed: %v", err)
	}
	return items, nil
}

func (s *newsService) Publish(ctx context.Context, item *domain.NewsItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return fmt.Errorf("news.Publish: %w", err)
	}
	s.cache.Remove(ctx, newsFeedCacheKey)
	return nil
}

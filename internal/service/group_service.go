package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"studylink/internal/domain"
	"studylink/internal/port"
)

const groupListCacheKey = "groups:list"

func groupCacheKey(id uuid.UUID) string {
	return "groups:" + id.String()
}

// GroupService manages study groups with cached reads.
type GroupService interface {
	Create(ctx context.Context, group *domain.StudyGroup) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyGroup, error)
	List(ctx context.Context, offset, limit int) ([]domain.StudyGroup, int, error)
}

type groupService struct {
	repo  port.GroupRepository
	cache CacheService
}

// NewGroupService creates a new GroupService implementation.
func NewGroupService(repo port.GroupRepository, cache CacheService) GroupService {
	return &groupService{repo: repo, cache: cache}
}

func (s *groupService) Create(ctx context.Context, group *domain.StudyGroup) error {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return fmt.Errorf("group.Create: %w", err)
	}
	s.cache.Remove(ctx, groupListCacheKey)
	return nil
}

func (s *groupService) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyGroup, error) {
	var group domain.StudyGroup
	if s.cache.Get(ctx, groupCacheKey(id), &group) {
		return &group, nil
	}

	fetched, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetWithStrategy(ctx, groupCacheKey(id), fetched, domain.CacheStrategyGroups); err != nil {
		log.Printf("group.GetByID: cache write failed: %v", err)
	}
	return fetched, nil
}

type cachedGroupList struct {
	Groups []domain.StudyGroup `json:"groups"`
	Total  int                 `json:"total"`
}

func (s *groupService) List(ctx context.Context, offset, limit int) ([]domain.StudyGroup, int, error) {
	// Only the first page is hot enough to cache.
	cacheable := offset == 0
	if cacheable {
		var cached cachedGroupList
		if s.cache.Get(ctx, groupListCacheKey, &cached) {
			groups := cached.Groups
			if limit > 0 && len(groups) > limit {
				groups = groups[:limit]
			}
			return groups, cached.Total, nil
		}
	}

	groups, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("group.List: %w", err)
	}

	if cacheable {
		if err := s.cache.SetWithStrategy(ctx, groupListCacheKey, cachedGroupList{Groups: groups, Total: total}, domain.CacheStrategyGroups); err != nil {
			log.Printf("group.List: cache write failed: %v", err)
		}
	}
	return groups, total, nil
}

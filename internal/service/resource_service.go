package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"studylink/internal/domain"
	"studylink/internal/port"
)

// UploadResourceInput describes a catalog upload request. The pipeline input
// carries the bytes; the remaining fields become the catalog record.
type UploadResourceInput struct {
	Pipeline UploadInput
	OwnerID  uuid.UUID
	GroupID  *uuid.UUID
	Title    string
}

// ResourceService manages the uploaded-resource catalog on top of the upload
// pipeline.
type ResourceService interface {
	UploadResource(ctx context.Context, input UploadResourceInput) (*domain.Resource, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Resource, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.Resource, int, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID, offset, limit int) ([]domain.Resource, int, error)
	Delete(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error
	AttachThumbnail(ctx context.Context, bucket, storedPath, thumbnailURL string) error
}

type resourceService struct {
	uploader UploadService
	storage  port.ObjectStorage
	repo     port.ResourceRepository
}

// NewResourceService creates a new ResourceService implementation.
func NewResourceService(uploader UploadService, storage port.ObjectStorage, repo port.ResourceRepository) ResourceService {
	return &resourceService{uploader: uploader, storage: storage, repo: repo}
}

func (s *resourceService) UploadResource(ctx context.Context, input UploadResourceInput) (*domain.Resource, error) {
	result, err := s.uploader.Upload(ctx, input.Pipeline)
	if err != nil {
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = input.Pipeline.Filename
	}

	res := &domain.Resource{
		ID:          uuid.New(),
		OwnerID:     input.OwnerID,
		GroupID:     input.GroupID,
		Title:       title,
		Bucket:      input.Pipeline.Bucket,
		StoredPath:  result.StoredPath,
		ContentType: input.Pipeline.ContentType,
		FileSize:    input.Pipeline.DeclaredSize,
		PublicURL:   result.PublicURL,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		// The object is already durable; surface the catalog failure but
		// leave the upload in place so a retry can reconcile.
		log.Printf("resource.UploadResource: catalog insert failed for %s/%s: %v", res.Bucket, res.StoredPath, err)
		return nil, fmt.Errorf("resource.UploadResource: %w", err)
	}

	return res, nil
}

func (s *resourceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *resourceService) ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.Resource, int, error) {
	return s.repo.ListByOwner(ctx, ownerID, offset, limit)
}

func (s *resourceService) ListByGroup(ctx context.Context, groupID uuid.UUID, offset, limit int) ([]domain.Resource, int, error) {
	return s.repo.ListByGroup(ctx, groupID, offset, limit)
}

func (s *resourceService) Delete(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.OwnerID != requesterID {
		return domain.ErrForbidden
	}

	if err := s.storage.Remove(ctx, res.Bucket, []string{res.StoredPath}); err != nil {
		return fmt.Errorf("resource.Delete: removing object %s/%s: %w", res.Bucket, res.StoredPath, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("resource.Delete: %w", err)
	}
	return nil
}

func (s *resourceService) AttachThumbnail(ctx context.Context, bucket, storedPath, thumbnailURL string) error {
	err := s.repo.UpdateThumbnailByPath(ctx, bucket, storedPath, thumbnailURL)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Printf("resource.AttachThumbnail: no catalog record for %s/%s", bucket, storedPath)
			return err
		}
		return fmt.Errorf("resource.AttachThumbnail: %w", err)
	}
	return nil
}

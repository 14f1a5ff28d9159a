package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studylink/internal/domain"
	"studylink/mocks"
)

func TestUploadResourceCatalogsStoredPath(t *testing.T) {
	uploader := new(mockUploadService)
	storage := new(mocks.MockObjectStorage)
	repo := new(mocks.MockResourceRepository)
	svc := NewResourceService(uploader, storage, repo)

	ownerID := uuid.New()
	uploader.On("Upload", mock.Anything, mock.Anything).Return(&domain.UploadResult{
		StoredPath: ownerID.String() + "/notes.pdf",
		PublicURL:  "https://cdn.example.com/notes.pdf",
	}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(res *domain.Resource) bool {
		return res.StoredPath == ownerID.String()+"/notes.pdf" && res.Title == "notes.pdf"
	})).Return(nil)

	res, err := svc.UploadResource(context.Background(), UploadResourceInput{
		Pipeline: UploadInput{
			Filename:        "notes.pdf",
			Bucket:          "study-files",
			DestinationPath: ownerID.String() + "/notes.pdf",
		},
		OwnerID: ownerID,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/notes.pdf", res.PublicURL)
	repo.AssertExpectations(t)
}

func TestUploadResourcePipelineErrorSkipsCatalog(t *testing.T) {
	uploader := new(mockUploadService)
	repo := new(mocks.MockResourceRepository)
	svc := NewResourceService(uploader, new(mocks.MockObjectStorage), repo)

	uploader.On("Upload", mock.Anything, mock.Anything).Return(nil, domain.ErrFileTooLarge)

	_, err := svc.UploadResource(context.Background(), UploadResourceInput{OwnerID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeleteResourceChecksOwnership(t *testing.T) {
	repo := new(mocks.MockResourceRepository)
	storage := new(mocks.MockObjectStorage)
	svc := NewResourceService(new(mockUploadService), storage, repo)

	owner := uuid.New()
	resID := uuid.New()
	repo.On("GetByID", mock.Anything, resID).Return(&domain.Resource{
		ID: resID, OwnerID: owner, Bucket: "study-files", StoredPath: "a/b.pdf",
	}, nil)

	err := svc.Delete(context.Background(), resID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	storage.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)

	storage.On("Remove", mock.Anything, "study-files", []string{"a/b.pdf"}).Return(nil)
	repo.On("Delete", mock.Anything, resID).Return(nil)
	require.NoError(t, svc.Delete(context.Background(), resID, owner))
}

func TestAttachThumbnailUnknownPath(t *testing.T) {
	repo := new(mocks.MockResourceRepository)
	svc := NewResourceService(new(mockUploadService), new(mocks.MockObjectStorage), repo)

	repo.On("UpdateThumbnailByPath", mock.Anything, "study-files", "a/b.pdf", "https://cdn/thumb.png").
		Return(domain.ErrNotFound)

	err := svc.AttachThumbnail(context.Background(), "study-files", "a/b.pdf", "https://cdn/thumb.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

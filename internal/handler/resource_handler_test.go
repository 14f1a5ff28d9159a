package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studylink/internal/config"
	"studylink/internal/domain"
	"studylink/internal/middleware"
	"studylink/internal/service"
	"studylink/internal/storagepath"
)

type mockResourceService struct {
	mock.Mock
}

func (m *mockResourceService) UploadResource(ctx context.Context, input service.UploadResourceInput) (*domain.Resource, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resource), args.Error(1)
}

func (m *mockResourceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resource), args.Error(1)
}

func (m *mockResourceService) ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.Resource, int, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Resource), args.Int(1), args.Error(2)
}

func (m *mockResourceService) ListByGroup(ctx context.Context, groupID uuid.UUID, offset, limit int) ([]domain.Resource, int, error) {
	args := m.Called(ctx, groupID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Resource), args.Int(1), args.Error(2)
}

func (m *mockResourceService) Delete(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}

func (m *mockResourceService) AttachThumbnail(ctx context.Context, bucket, storedPath, thumbnailURL string) error {
	args := m.Called(ctx, bucket, storedPath, thumbnailURL)
	return args.Error(0)
}

func uploadHandlerConfig() *config.UploadConfig {
	return &config.UploadConfig{
		Bucket:        "study-files",
		GroupBucket:   "study-groups",
		MaxFileSizeMB: 10,
	}
}

// newUploadTestRouter wires the upload route behind a stub that injects the
// authenticated user the way the auth middleware would.
func newUploadTestRouter(h *ResourceHandler, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/resources", func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
		h.Upload(c)
	})
	return r
}

func multipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUploadSanitizesPersonalDestination(t *testing.T) {
	userID := uuid.New()
	svc := new(mockResourceService)
	h := NewResourceHandler(svc, uploadHandlerConfig())
	r := newUploadTestRouter(h, userID)

	var captured service.UploadResourceInput
	svc.On("UploadResource", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(service.UploadResourceInput)
		}).
		Return(&domain.Resource{ID: uuid.New(), OwnerID: userID, CreatedAt: time.Now()}, nil)

	body, contentType := multipartUpload(t, "Résumé (final).pdf", []byte("notes"), map[string]string{"upsert": "true"})
	req := httptest.NewRequest(http.MethodPost, "/resources", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// A personal upload has the two-segment owner/file shape, so the
	// filename must already be key-safe when it enters the path.
	assert.Equal(t, userID.String()+"/Resume_final.pdf", captured.Pipeline.DestinationPath)
	assert.NoError(t, storagepath.Validate(captured.Pipeline.DestinationPath))
	assert.Equal(t, "study-files", captured.Pipeline.Bucket)
	assert.True(t, captured.Pipeline.Upsert)

	// The raw display name survives for the catalog title default.
	assert.Equal(t, "Résumé (final).pdf", captured.Pipeline.Filename)
}

func TestUploadUniqueNameWithoutUpsert(t *testing.T) {
	userID := uuid.New()
	svc := new(mockResourceService)
	h := NewResourceHandler(svc, uploadHandlerConfig())
	r := newUploadTestRouter(h, userID)

	var captured service.UploadResourceInput
	svc.On("UploadResource", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(service.UploadResourceInput)
		}).
		Return(&domain.Resource{ID: uuid.New(), OwnerID: userID, CreatedAt: time.Now()}, nil)

	body, contentType := multipartUpload(t, "Résumé (final).pdf", []byte("notes"), nil)
	req := httptest.NewRequest(http.MethodPost, "/resources", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	path := captured.Pipeline.DestinationPath
	assert.True(t, strings.HasPrefix(path, userID.String()+"/Resume_final_"), "path %q", path)
	assert.True(t, strings.HasSuffix(path, ".pdf"), "path %q", path)
	assert.NoError(t, storagepath.Validate(path))
	assert.False(t, captured.Pipeline.Upsert)
}

func TestUploadGroupDestinationSanitized(t *testing.T) {
	userID := uuid.New()
	groupID := uuid.New()
	svc := new(mockResourceService)
	h := NewResourceHandler(svc, uploadHandlerConfig())
	r := newUploadTestRouter(h, userID)

	var captured service.UploadResourceInput
	svc.On("UploadResource", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(service.UploadResourceInput)
		}).
		Return(&domain.Resource{ID: uuid.New(), OwnerID: userID, CreatedAt: time.Now()}, nil)

	body, contentType := multipartUpload(t, "week 1 plan.txt", []byte("plan"), map[string]string{
		"group_id": groupID.String(),
		"upsert":   "true",
	})
	req := httptest.NewRequest(http.MethodPost, "/resources", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, groupID.String()+"/"+userID.String()+"/week_1_plan.txt", captured.Pipeline.DestinationPath)
	assert.Equal(t, "study-groups", captured.Pipeline.Bucket)
	require.NotNil(t, captured.GroupID)
	assert.Equal(t, groupID, *captured.GroupID)
}

func TestUploadRequiresFileOrDataURI(t *testing.T) {
	userID := uuid.New()
	svc := new(mockResourceService)
	h := NewResourceHandler(svc, uploadHandlerConfig())
	r := newUploadTestRouter(h, userID)

	req := httptest.NewRequest(http.MethodPost, "/resources", strings.NewReader("upsert=true"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "UploadResource", mock.Anything, mock.Anything)
}

package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studylink/internal/config"
	"studylink/internal/middleware"
	"studylink/internal/service"
	"studylink/internal/storagepath"
)

// ResourceHandler handles resource upload and catalog endpoints.
type ResourceHandler struct {
	resources service.ResourceService
	cfg       *config.UploadConfig
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(resources service.ResourceService, cfg *config.UploadConfig) *ResourceHandler {
	return &ResourceHandler{resources: resources, cfg: cfg}
}

// Upload handles POST /api/v1/resources. It accepts either a multipart file
// or a data URI in the JSON body; both are spooled into the same pipeline.
func (h *ResourceHandler) Upload(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var (
		sourceURI    string
		filename     string
		contentType  string
		declaredSize int64
	)

	if file, header, formErr := c.Request.FormFile("file"); formErr == nil {
		defer func() { _ = file.Close() }()

		tmp, tmpErr := os.CreateTemp("", "studylink-upload-*")
		if tmpErr != nil {
			RespondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not buffer upload")
			return
		}
		defer func() { _ = os.Remove(tmp.Name()) }()

		written, copyErr := io.Copy(tmp, file)
		_ = tmp.Close()
		if copyErr != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_SOURCE", "could not read uploaded file")
			return
		}

		sourceURI = "file://" + tmp.Name()
		filename = header.Filename
		contentType = header.Header.Get("Content-Type")
		declaredSize = written
	} else if dataURI := c.PostForm("data_uri"); dataURI != "" {
		sourceURI = dataURI
		filename = c.PostForm("filename")
		contentType = c.PostForm("content_type")
	} else {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file or data_uri field is required")
		return
	}

	upsert := c.PostForm("upsert") == "true"

	// Only a sanitized filename may enter the destination path; the raw
	// display name stays on the input for the catalog title. Non-upsert
	// uploads get a unique suffix so repeat uploads of the same name
	// never collide on the stored path.
	safeName := storagepath.SanitizeFilename(filename)
	if !upsert {
		safeName = storagepath.GenerateSafeFilename(filename)
	}

	var groupID *uuid.UUID
	bucket := h.cfg.Bucket
	destPrefix := userID.String()
	if groupIDStr := c.PostForm("group_id"); groupIDStr != "" {
		parsed, parseErr := uuid.Parse(groupIDStr)
		if parseErr != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group_id")
			return
		}
		groupID = &parsed
		bucket = h.cfg.GroupBucket
		destPrefix = fmt.Sprintf("%s/%s", parsed, userID)
	}

	input := service.UploadResourceInput{
		Pipeline: service.UploadInput{
			SourceURI:       sourceURI,
			Filename:        filename,
			ContentType:     contentType,
			DeclaredSize:    declaredSize,
			Bucket:          bucket,
			DestinationPath: destPrefix + "/" + safeName,
			Upsert:          upsert,
		},
		OwnerID: userID,
		GroupID: groupID,
		Title:   c.PostForm("title"),
	}

	res, err := h.resources.UploadResource(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, res)
}

// List handles GET /api/v1/resources. With group_id it lists a group's shared
// files; otherwise the caller's own.
func (h *ResourceHandler) List(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	offset, limit := pagination(c)

	if groupIDStr := c.Query("group_id"); groupIDStr != "" {
		groupID, parseErr := uuid.Parse(groupIDStr)
		if parseErr != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group_id")
			return
		}
		resources, total, listErr := h.resources.ListByGroup(c.Request.Context(), groupID, offset, limit)
		if listErr != nil {
			HandleError(c, listErr)
			return
		}
		RespondPaginated(c, resources, PagMeta{Total: total, Offset: offset, Limit: limit})
		return
	}

	resources, total, err := h.resources.ListByOwner(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, resources, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/resources/:id
func (h *ResourceHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid resource ID")
		return
	}

	res, err := h.resources.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// Delete handles DELETE /api/v1/resources/:id
func (h *ResourceHandler) Delete(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid resource ID")
		return
	}

	if err := h.resources.Delete(c.Request.Context(), id, userID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "resource deleted"})
}

func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

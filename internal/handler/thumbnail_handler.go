package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studylink/internal/service"
)

// ThumbnailHandler receives write-backs from the external thumbnail generator.
type ThumbnailHandler struct {
	resources service.ResourceService
}

// NewThumbnailHandler creates a new ThumbnailHandler.
func NewThumbnailHandler(resources service.ResourceService) *ThumbnailHandler {
	return &ThumbnailHandler{resources: resources}
}

// Attach handles POST /internal/thumbnails. The generator identifies the
// resource by bucket and stored path, not by catalog ID.
func (h *ThumbnailHandler) Attach(c *gin.Context) {
	var input struct {
		Bucket       string `json:"bucket" binding:"required"`
		StoredPath   string `json:"stored_path" binding:"required"`
		ThumbnailURL string `json:"thumbnail_url" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	err := h.resources.AttachThumbnail(c.Request.Context(), input.Bucket, input.StoredPath, input.ThumbnailURL)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "thumbnail attached"})
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"studylink/internal/domain"
	"studylink/internal/service"
)

// NewsHandler handles news feed endpoints.
type NewsHandler struct {
	news service.NewsService
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(news service.NewsService) *NewsHandler {
	return &NewsHandler{news: news}
}

// Feed handles GET /api/v1/news
func (h *NewsHandler) Feed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	items, err := h.news.GetFeed(c.Request.Context(), limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, items)
}

// Publish handles POST /api/v1/news
func (h *NewsHandler) Publish(c *gin.Context) {
	var input struct {
		Title    string `json:"title" binding:"required"`
		Body     string `json:"body" binding:"required"`
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	item := &domain.NewsItem{
		Title:       input.Title,
		Body:        input.Body,
		ImageURL:    input.ImageURL,
		PublishedAt: time.Now().UTC(),
	}
	if err := h.news.Publish(c.Request.Context(), item); err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, item)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"studylink/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db      *sqlx.DB
	storage port.ObjectStorage
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sqlx.DB, storage port.ObjectStorage) *HealthHandler {
	return &HealthHandler{db: db, storage: storage}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
		return
	}
	if _, err := h.storage.ListBuckets(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "object storage not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

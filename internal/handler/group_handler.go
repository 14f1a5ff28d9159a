package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studylink/internal/domain"
	"studylink/internal/middleware"
	"studylink/internal/service"
)

// GroupHandler handles study group endpoints.
type GroupHandler struct {
	groups service.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groups service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// Create handles POST /api/v1/groups
func (h *GroupHandler) Create(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	group := &domain.StudyGroup{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     userID,
		MemberCount: 1,
	}
	if err := h.groups.Create(c.Request.Context(), group); err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, group)
}

// List handles GET /api/v1/groups
func (h *GroupHandler) List(c *gin.Context) {
	offset, limit := pagination(c)

	groups, total, err := h.groups.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, groups, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/groups/:id
func (h *GroupHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group ID")
		return
	}

	group, err := h.groups.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, group)
}

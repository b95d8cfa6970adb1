package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/http/response"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/services"
)

type AssignmentHandler struct {
	log               *logger.Logger
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(log *logger.Logger, assignmentService services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{log: log.With("handler", "AssignmentHandler"), assignmentService: assignmentService}
}

// POST /api/assignments
// Duplicate pairs come back as 409 via respondServiceError.
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var lp rentals.LeadsProperty
	if err := c.ShouldBindJSON(&lp); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.assignmentService.Assign(c.Request.Context(), &lp)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assignment": created})
}

// GET /api/leads/:uid/assignments
func (h *AssignmentHandler) ListForLead(c *gin.Context) {
	list, err := h.assignmentService.ListForLead(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assignments": list})
}

// GET /api/properties/:uid/assignments
func (h *AssignmentHandler) ListForProperty(c *gin.Context) {
	list, err := h.assignmentService.ListForProperty(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assignments": list})
}

// PATCH /api/assignments/:leadUID/:propertyUID
func (h *AssignmentHandler) Update(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	lp, err := h.assignmentService.Update(c.Request.Context(), c.Param("leadUID"), c.Param("propertyUID"), fields)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assignment": lp})
}

// DELETE /api/assignments/:leadUID/:propertyUID
func (h *AssignmentHandler) Unassign(c *gin.Context) {
	if err := h.assignmentService.Unassign(c.Request.Context(), c.Param("leadUID"), c.Param("propertyUID")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	repos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/http/response"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/services"
)

type LeadHandler struct {
	log         *logger.Logger
	leadService services.LeadService
}

func NewLeadHandler(log *logger.Logger, leadService services.LeadService) *LeadHandler {
	return &LeadHandler{log: log.With("handler", "LeadHandler"), leadService: leadService}
}

// PUT /api/leads
func (h *LeadHandler) Upsert(c *gin.Context) {
	var l rentals.Lead
	if err := c.ShouldBindJSON(&l); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	saved, err := h.leadService.Upsert(c.Request.Context(), &l)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lead": saved})
}

// GET /api/leads/:uid
func (h *LeadHandler) Get(c *gin.Context) {
	l, err := h.leadService.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lead": l})
}

// GET /api/leads?status=&employment_status=&max_budget=
func (h *LeadHandler) List(c *gin.Context) {
	f := repos.LeadFilter{
		Status:           c.Query("status"),
		EmploymentStatus: c.Query("employment_status"),
	}
	if raw := c.Query("max_budget"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		f.MaxBudget = &v
	}
	list, err := h.leadService.List(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"leads": list})
}

// PATCH /api/leads/:uid
func (h *LeadHandler) Update(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	l, err := h.leadService.Update(c.Request.Context(), c.Param("uid"), fields)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lead": l})
}

// DELETE /api/leads/:uid
func (h *LeadHandler) Delete(c *gin.Context) {
	if err := h.leadService.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/leads/kanban
func (h *LeadHandler) Kanban(c *gin.Context) {
	board, err := h.leadService.Kanban(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"board": board})
}

// GET /api/leads/:uid/obligatory-doc-keys
func (h *LeadHandler) ObligatoryDocKeys(c *gin.Context) {
	l, err := h.leadService.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"keys": services.ObligatoryDocKeys(l.EmploymentStatus, l.EmploymentContractType)})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/http/response"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/services"
)

type TenantHandler struct {
	log           *logger.Logger
	tenantService services.TenantService
}

func NewTenantHandler(log *logger.Logger, tenantService services.TenantService) *TenantHandler {
	return &TenantHandler{log: log.With("handler", "TenantHandler"), tenantService: tenantService}
}

// PUT /api/properties/:uid/tenant
func (h *TenantHandler) Upsert(c *gin.Context) {
	var t rentals.PropertyTenant
	if err := c.ShouldBindJSON(&t); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	t.PropertyUniqueID = c.Param("uid")
	saved, err := h.tenantService.Upsert(c.Request.Context(), &t)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tenant": saved})
}

// GET /api/properties/:uid/tenant
func (h *TenantHandler) Get(c *gin.Context) {
	t, err := h.tenantService.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tenant": t})
}

// DELETE /api/properties/:uid/tenant
func (h *TenantHandler) Delete(c *gin.Context) {
	if err := h.tenantService.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/http/response"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/services"
)

type RentalHandler struct {
	log           *logger.Logger
	rentalService services.RentalService
}

func NewRentalHandler(log *logger.Logger, rentalService services.RentalService) *RentalHandler {
	return &RentalHandler{log: log.With("handler", "RentalHandler"), rentalService: rentalService}
}

// PUT /api/properties/:uid/rental
func (h *RentalHandler) Upsert(c *gin.Context) {
	var r rentals.PropertyRental
	if err := c.ShouldBindJSON(&r); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	r.PropertyUniqueID = c.Param("uid")
	saved, err := h.rentalService.Upsert(c.Request.Context(), &r)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rental": saved})
}

// GET /api/properties/:uid/rental
func (h *RentalHandler) Get(c *gin.Context) {
	r, err := h.rentalService.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rental": r})
}

// GET /api/rentals?status=active
func (h *RentalHandler) ListByStatus(c *gin.Context) {
	list, err := h.rentalService.ListByStatus(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rentals": list})
}

// DELETE /api/properties/:uid/rental
func (h *RentalHandler) Delete(c *gin.Context) {
	if err := h.rentalService.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

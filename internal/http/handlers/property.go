package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	repos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/http/response"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/services"
)

type PropertyHandler struct {
	log             *logger.Logger
	propertyService services.PropertyService
}

func NewPropertyHandler(log *logger.Logger, propertyService services.PropertyService) *PropertyHandler {
	return &PropertyHandler{log: log.With("handler", "PropertyHandler"), propertyService: propertyService}
}

// PUT /api/properties
func (h *PropertyHandler) Upsert(c *gin.Context) {
	var p rentals.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	saved, err := h.propertyService.Upsert(c.Request.Context(), &p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"property": saved})
}

// GET /api/properties/:uid
func (h *PropertyHandler) Get(c *gin.Context) {
	p, err := h.propertyService.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"property": p})
}

// GET /api/properties?city=&area_cluster=&stage=&status=a,b&max_price=&min_bedrooms=
func (h *PropertyHandler) List(c *gin.Context) {
	f := repos.PropertyFilter{
		City:        c.Query("city"),
		AreaCluster: c.Query("area_cluster"),
		Stage:       c.Query("stage"),
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				f.Statuses = append(f.Statuses, s)
			}
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		f.MaxPrice = &v
	}
	if raw := c.Query("min_bedrooms"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		f.MinBedrooms = &v
	}

	list, err := h.propertyService.List(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"properties": list})
}

// PATCH /api/properties/:uid
// body: partial column map, e.g. { "purchase_price": 120000 }
func (h *PropertyHandler) Update(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, err := h.propertyService.Update(c.Request.Context(), c.Param("uid"), fields)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"property": p})
}

// DELETE /api/properties/:uid
func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.propertyService.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/properties/kanban
func (h *PropertyHandler) Kanban(c *gin.Context) {
	board, err := h.propertyService.Kanban(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"board": board})
}

// PUT /api/properties/:uid/section-reviews
// body: { "<section>": { "isCorrect": bool|null, "comments": "...", ... } }
func (h *PropertyHandler) SetSectionReviews(c *gin.Context) {
	var reviews rentals.SectionReviewMap
	if err := c.ShouldBindJSON(&reviews); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, err := h.propertyService.SetSectionReviews(c.Request.Context(), c.Param("uid"), reviews)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"property": p})
}

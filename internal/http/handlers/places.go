package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vistral/rentals-backend/internal/clients/places"
	"github.com/vistral/rentals-backend/internal/http/response"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

type PlacesHandler struct {
	log    *logger.Logger
	places places.Client
}

func NewPlacesHandler(log *logger.Logger, placesClient places.Client) *PlacesHandler {
	return &PlacesHandler{log: log.With("handler", "PlacesHandler"), places: placesClient}
}

// GET /api/places/autocomplete?input=...
func (h *PlacesHandler) Autocomplete(c *gin.Context) {
	input := c.Query("input")
	if input == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("input is required"))
		return
	}
	predictions, err := h.places.Autocomplete(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "places_unavailable", err)
		return
	}
	response.RespondOK(c, gin.H{"predictions": predictions})
}

// GET /api/places/details?place_id=...
func (h *PlacesHandler) Details(c *gin.Context) {
	placeID := c.Query("place_id")
	if placeID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("place_id is required"))
		return
	}
	details, err := h.places.Details(c.Request.Context(), placeID)
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "places_unavailable", err)
		return
	}
	response.RespondOK(c, gin.H{"details": details})
}

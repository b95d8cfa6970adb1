package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vistral/rentals-backend/internal/http/response"
	"github.com/vistral/rentals-backend/internal/services"
)

// respondServiceError maps service errors onto HTTP statuses: missing rows to
// 404, unique violations to 409, auth failures to 401, rejected payloads to
// 400. Anything else is a database or storage failure and surfaces as 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case services.IsNotFound(err):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case services.IsDuplicate(err):
		response.RespondError(c, http.StatusConflict, "conflict", err)
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, services.ErrEmailTaken):
		response.RespondError(c, http.StatusConflict, "conflict", err)
	case services.IsInvalidInput(err):
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}

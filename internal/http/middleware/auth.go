package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vistral/rentals-backend/internal/http/response"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/requestdata"
	"github.com/vistral/rentals-backend/internal/services"
	"github.com/vistral/rentals-backend/internal/domain/user"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing or invalid token"))
			c.Abort()
			return
		}
		rd, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
			c.Abort()
			return
		}
		if rd.UserID == uuid.Nil {
			response.RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("forbidden"))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), &rd))
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Admins pass every gate.
func (am *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	allowed := map[string]bool{}
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		if rd == nil || rd.UserID == uuid.Nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
			c.Abort()
			return
		}
		if rd.Role != user.RoleAdmin && !allowed[rd.Role] {
			response.RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("role %q cannot access this resource", rd.Role))
			c.Abort()
			return
		}
		c.Next()
	}
}

// extractToken accepts the Authorization header or, for SSE connections that
// cannot set headers, a token query parameter.
func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

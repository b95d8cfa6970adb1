package app

import (
	vhttp "github.com/vistral/rentals-backend/internal/http"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, h Handlers, mw Middleware) *vhttp.Server {
	log.Info("Wiring router...")
	return vhttp.NewServer(vhttp.RouterConfig{
		Log:            log,
		AuthMiddleware: mw.Auth,

		HealthHandler:     h.Health,
		AuthHandler:       h.Auth,
		UserHandler:       h.User,
		RealtimeHandler:   h.Realtime,
		PropertyHandler:   h.Property,
		LeadHandler:       h.Lead,
		AssignmentHandler: h.Assignment,
		TaskHandler:       h.Task,
		VisitHandler:      h.Visit,
		TenantHandler:     h.Tenant,
		RentalHandler:     h.Rental,
		DocumentHandler:   h.Document,
		PlacesHandler:     h.Places,
	})
}

package app

import (
	httpH "github.com/vistral/rentals-backend/internal/http/handlers"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/sse"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Realtime   *httpH.RealtimeHandler
	Property   *httpH.PropertyHandler
	Lead       *httpH.LeadHandler
	Assignment *httpH.AssignmentHandler
	Task       *httpH.TaskHandler
	Visit      *httpH.VisitHandler
	Tenant     *httpH.TenantHandler
	Rental     *httpH.RentalHandler
	Document   *httpH.DocumentHandler
	Places     *httpH.PlacesHandler
}

func wireHandlers(log *logger.Logger, s Services, cl Clients, hub *sse.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Auth:       httpH.NewAuthHandler(log, s.Auth),
		User:       httpH.NewUserHandler(log, s.User),
		Realtime:   httpH.NewRealtimeHandler(log, hub),
		Property:   httpH.NewPropertyHandler(log, s.Property),
		Lead:       httpH.NewLeadHandler(log, s.Lead),
		Assignment: httpH.NewAssignmentHandler(log, s.Assignment),
		Task:       httpH.NewTaskHandler(log, s.Task),
		Visit:      httpH.NewVisitHandler(log, s.Visit),
		Tenant:     httpH.NewTenantHandler(log, s.Tenant),
		Rental:     httpH.NewRentalHandler(log, s.Rental),
		Document:   httpH.NewDocumentHandler(log, s.Document),
		Places:     httpH.NewPlacesHandler(log, cl.Places),
	}
}

package app

import (
	"gorm.io/gorm"

	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/services"
	"github.com/vistral/rentals-backend/internal/sse"
)

type Services struct {
	Notifier      services.Notifier
	SectionReview services.SectionReviewService
	Auth          services.AuthService
	User          services.UserService
	Property      services.PropertyService
	Lead          services.LeadService
	Assignment    services.AssignmentService
	Task          services.TaskService
	Visit         services.VisitService
	Tenant        services.TenantService
	Rental        services.RentalService
	Document      services.DocumentService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, cl Clients, hub *sse.SSEHub) Services {
	log.Info("Wiring services...")
	notifier := services.NewNotifier(log, hub, cl.SSEBus)
	sectionReview := services.NewSectionReviewService(db, log, r.Property, notifier)

	return Services{
		Notifier:      notifier,
		SectionReview: sectionReview,
		Auth: services.NewAuthService(db, log, services.AuthConfig{
			JWTSecret:  cfg.JWTSecretKey,
			AccessTTL:  cfg.AccessTokenTTL,
			RefreshTTL: cfg.RefreshTokenTTL,
		}, r.User, r.UserToken),
		User:       services.NewUserService(db, log, r.User),
		Property:   services.NewPropertyService(db, log, r.Property, cl.Bucket, sectionReview, notifier),
		Lead:       services.NewLeadService(db, log, r.Lead, cl.Bucket, notifier),
		Assignment: services.NewAssignmentService(db, log, r.LeadsProperty, r.Lead, r.Property, notifier),
		Task:       services.NewTaskService(db, log, r.Task, notifier),
		Visit:      services.NewVisitService(db, log, r.Visit, r.Property),
		Tenant:     services.NewTenantService(db, log, r.Tenant, r.Property),
		Rental:     services.NewRentalService(db, log, r.Rental, r.Property),
		Document:   services.NewDocumentService(db, log, cl.Bucket, r.Property, r.Lead, sectionReview, notifier),
	}
}

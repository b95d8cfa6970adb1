package http

import (
	"github.com/gin-gonic/gin"

	"github.com/vistral/rentals-backend/internal/domain/user"
	httpH "github.com/vistral/rentals-backend/internal/http/handlers"
	httpMW "github.com/vistral/rentals-backend/internal/http/middleware"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	AuthHandler       *httpH.AuthHandler
	UserHandler       *httpH.UserHandler
	RealtimeHandler   *httpH.RealtimeHandler
	PropertyHandler   *httpH.PropertyHandler
	LeadHandler       *httpH.LeadHandler
	AssignmentHandler *httpH.AssignmentHandler
	TaskHandler       *httpH.TaskHandler
	VisitHandler      *httpH.VisitHandler
	TenantHandler     *httpH.TenantHandler
	RentalHandler     *httpH.RentalHandler
	DocumentHandler   *httpH.DocumentHandler
	PlacesHandler     *httpH.PlacesHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS(cfg.Log))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/users/:id/role",
				cfg.AuthMiddleware.RequireRole(user.RoleAdmin),
				cfg.UserHandler.SetRole)
		}

		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
			protected.POST("/sse/subscribe", cfg.RealtimeHandler.SSESubscribe)
			protected.POST("/sse/unsubscribe", cfg.RealtimeHandler.SSEUnsubscribe)
		}

		writers := cfg.AuthMiddleware.RequireRole(user.RoleAnalyst, user.RoleSupply)

		if cfg.PropertyHandler != nil {
			protected.GET("/properties", cfg.PropertyHandler.List)
			protected.GET("/properties/kanban", cfg.PropertyHandler.Kanban)
			protected.GET("/properties/:uid", cfg.PropertyHandler.Get)
			protected.PUT("/properties", writers, cfg.PropertyHandler.Upsert)
			protected.PATCH("/properties/:uid", writers, cfg.PropertyHandler.Update)
			protected.DELETE("/properties/:uid", writers, cfg.PropertyHandler.Delete)
			protected.PUT("/properties/:uid/section-reviews",
				cfg.AuthMiddleware.RequireRole(user.RoleAnalyst),
				cfg.PropertyHandler.SetSectionReviews)
		}

		if cfg.LeadHandler != nil {
			protected.GET("/leads", cfg.LeadHandler.List)
			protected.GET("/leads/kanban", cfg.LeadHandler.Kanban)
			protected.GET("/leads/:uid", cfg.LeadHandler.Get)
			protected.GET("/leads/:uid/obligatory-doc-keys", cfg.LeadHandler.ObligatoryDocKeys)
			protected.PUT("/leads", writers, cfg.LeadHandler.Upsert)
			protected.PATCH("/leads/:uid", writers, cfg.LeadHandler.Update)
			protected.DELETE("/leads/:uid", writers, cfg.LeadHandler.Delete)
		}

		if cfg.AssignmentHandler != nil {
			protected.POST("/assignments", writers, cfg.AssignmentHandler.Assign)
			protected.GET("/leads/:uid/assignments", cfg.AssignmentHandler.ListForLead)
			protected.GET("/properties/:uid/assignments", cfg.AssignmentHandler.ListForProperty)
			protected.PATCH("/assignments/:leadUID/:propertyUID", writers, cfg.AssignmentHandler.Update)
			protected.DELETE("/assignments/:leadUID/:propertyUID", writers, cfg.AssignmentHandler.Unassign)
		}

		if cfg.TaskHandler != nil {
			protected.PUT("/tasks", writers, cfg.TaskHandler.Upsert)
			protected.GET("/properties/:uid/tasks", cfg.TaskHandler.ListForProperty)
			protected.PATCH("/tasks/completion", writers, cfg.TaskHandler.SetCompletion)
			protected.DELETE("/tasks", writers, cfg.TaskHandler.Delete)
		}

		if cfg.VisitHandler != nil {
			protected.POST("/visits", writers, cfg.VisitHandler.Create)
			protected.GET("/visits/:id", cfg.VisitHandler.Get)
			protected.GET("/properties/:uid/visits", cfg.VisitHandler.ListForProperty)
			protected.PATCH("/visits/:id", writers, cfg.VisitHandler.Update)
			protected.DELETE("/visits/:id", writers, cfg.VisitHandler.Delete)
		}

		if cfg.TenantHandler != nil {
			protected.PUT("/properties/:uid/tenant", writers, cfg.TenantHandler.Upsert)
			protected.GET("/properties/:uid/tenant", cfg.TenantHandler.Get)
			protected.DELETE("/properties/:uid/tenant", writers, cfg.TenantHandler.Delete)
		}

		if cfg.RentalHandler != nil {
			protected.PUT("/properties/:uid/rental", writers, cfg.RentalHandler.Upsert)
			protected.GET("/properties/:uid/rental", cfg.RentalHandler.Get)
			protected.GET("/rentals", cfg.RentalHandler.ListByStatus)
			protected.DELETE("/properties/:uid/rental", writers, cfg.RentalHandler.Delete)
		}

		if cfg.DocumentHandler != nil {
			protected.POST("/properties/:uid/documents/:field", writers, cfg.DocumentHandler.UploadPropertyDocument)
			protected.DELETE("/properties/:uid/documents/:field", writers, cfg.DocumentHandler.DeletePropertyDocument)
			protected.POST("/properties/:uid/renovation-files", writers, cfg.DocumentHandler.UploadRenovationFile)
			protected.POST("/leads/:uid/obligatory-docs/:field", writers, cfg.DocumentHandler.UploadLeadObligatoryDoc)
			protected.POST("/leads/:uid/complementary-docs", writers, cfg.DocumentHandler.UploadLeadComplementaryDoc)
		}

		if cfg.PlacesHandler != nil {
			protected.GET("/places/autocomplete", cfg.PlacesHandler.Autocomplete)
			protected.GET("/places/details", cfg.PlacesHandler.Details)
		}
	}

	return r
}

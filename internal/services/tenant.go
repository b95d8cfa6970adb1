package services

import (
	"context"

	"gorm.io/gorm"

	repos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

// TenantService manages the single tenant row a property may carry.
type TenantService interface {
	Upsert(ctx context.Context, t *rentals.PropertyTenant) (*rentals.PropertyTenant, error)
	Get(ctx context.Context, propertyUniqueID string) (*rentals.PropertyTenant, error)
	Delete(ctx context.Context, propertyUniqueID string) error
}

type tenantService struct {
	db           *gorm.DB
	log          *logger.Logger
	tenantRepo   repos.PropertyTenantRepo
	propertyRepo repos.PropertyRepo
}

func NewTenantService(db *gorm.DB, baseLog *logger.Logger, tenantRepo repos.PropertyTenantRepo, propertyRepo repos.PropertyRepo) TenantService {
	return &tenantService{
		db:           db,
		log:          baseLog.With("service", "TenantService"),
		tenantRepo:   tenantRepo,
		propertyRepo: propertyRepo,
	}
}

func (s *tenantService) Upsert(ctx context.Context, t *rentals.PropertyTenant) (*rentals.PropertyTenant, error) {
	if t.PropertyUniqueID == "" {
		return nil, invalidf("property_unique_id is required")
	}
	if t.FullName == "" {
		return nil, invalidf("full_name is required")
	}
	if _, err := s.propertyRepo.GetByUniqueID(ctx, nil, t.PropertyUniqueID); err != nil {
		return nil, err
	}
	return s.tenantRepo.Upsert(ctx, nil, t)
}

func (s *tenantService) Get(ctx context.Context, propertyUniqueID string) (*rentals.PropertyTenant, error) {
	return s.tenantRepo.GetByProperty(ctx, nil, propertyUniqueID)
}

func (s *tenantService) Delete(ctx context.Context, propertyUniqueID string) error {
	if _, err := s.tenantRepo.GetByProperty(ctx, nil, propertyUniqueID); err != nil {
		return err
	}
	return s.tenantRepo.DeleteByProperty(ctx, nil, propertyUniqueID)
}

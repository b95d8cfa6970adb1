package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	repos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

type VisitService interface {
	Create(ctx context.Context, v *rentals.PropertyVisit) (*rentals.PropertyVisit, error)
	Get(ctx context.Context, id uuid.UUID) (*rentals.PropertyVisit, error)
	ListForProperty(ctx context.Context, propertyUniqueID string) ([]*rentals.PropertyVisit, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*rentals.PropertyVisit, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type visitService struct {
	db           *gorm.DB
	log          *logger.Logger
	visitRepo    repos.PropertyVisitRepo
	propertyRepo repos.PropertyRepo
}

func NewVisitService(db *gorm.DB, baseLog *logger.Logger, visitRepo repos.PropertyVisitRepo, propertyRepo repos.PropertyRepo) VisitService {
	return &visitService{
		db:           db,
		log:          baseLog.With("service", "VisitService"),
		visitRepo:    visitRepo,
		propertyRepo: propertyRepo,
	}
}

var visitPatchColumns = map[string]bool{
	"visitor_name":  true,
	"visitor_email": true,
	"visitor_phone": true,
	"visit_date":    true,
	"status":        true,
	"notes":         true,
}

func (s *visitService) Create(ctx context.Context, v *rentals.PropertyVisit) (*rentals.PropertyVisit, error) {
	if v.PropertyUniqueID == "" {
		return nil, invalidf("property_unique_id is required")
	}
	if v.VisitorName == "" {
		return nil, invalidf("visitor_name is required")
	}
	if _, err := s.propertyRepo.GetByUniqueID(ctx, nil, v.PropertyUniqueID); err != nil {
		return nil, err
	}
	return s.visitRepo.Create(ctx, nil, v)
}

func (s *visitService) Get(ctx context.Context, id uuid.UUID) (*rentals.PropertyVisit, error) {
	return s.visitRepo.GetByID(ctx, nil, id)
}

func (s *visitService) ListForProperty(ctx context.Context, propertyUniqueID string) ([]*rentals.PropertyVisit, error) {
	return s.visitRepo.ListByProperty(ctx, nil, propertyUniqueID)
}

func (s *visitService) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*rentals.PropertyVisit, error) {
	patch := map[string]any{}
	for k, v := range fields {
		if visitPatchColumns[k] {
			patch[k] = v
		}
	}
	if len(patch) == 0 {
		return nil, invalidf("no updatable fields in request")
	}
	if err := s.visitRepo.UpdateFields(ctx, nil, id, patch); err != nil {
		return nil, err
	}
	return s.visitRepo.GetByID(ctx, nil, id)
}

func (s *visitService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.visitRepo.GetByID(ctx, nil, id); err != nil {
		return err
	}
	return s.visitRepo.DeleteByID(ctx, nil, id)
}

package services

import (
	"context"

	"gorm.io/gorm"

	repos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/sse"
)

// AssignmentService manages the lead-to-property join. Assigning an already
// assigned pair returns gorm.ErrDuplicatedKey, which the HTTP layer maps to
// 409.
type AssignmentService interface {
	Assign(ctx context.Context, lp *rentals.LeadsProperty) (*rentals.LeadsProperty, error)
	Get(ctx context.Context, leadUniqueID, propertyUniqueID string) (*rentals.LeadsProperty, error)
	ListForLead(ctx context.Context, leadUniqueID string) ([]*rentals.LeadsProperty, error)
	ListForProperty(ctx context.Context, propertyUniqueID string) ([]*rentals.LeadsProperty, error)
	Update(ctx context.Context, leadUniqueID, propertyUniqueID string, fields map[string]any) (*rentals.LeadsProperty, error)
	Unassign(ctx context.Context, leadUniqueID, propertyUniqueID string) error
}

type assignmentService struct {
	db                *gorm.DB
	log               *logger.Logger
	leadsPropertyRepo repos.LeadsPropertyRepo
	leadRepo          repos.LeadRepo
	propertyRepo      repos.PropertyRepo
	notifier          Notifier
}

func NewAssignmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	leadsPropertyRepo repos.LeadsPropertyRepo,
	leadRepo repos.LeadRepo,
	propertyRepo repos.PropertyRepo,
	notifier Notifier,
) AssignmentService {
	return &assignmentService{
		db:                db,
		log:               baseLog.With("service", "AssignmentService"),
		leadsPropertyRepo: leadsPropertyRepo,
		leadRepo:          leadRepo,
		propertyRepo:      propertyRepo,
		notifier:          notifier,
	}
}

func (s *assignmentService) Assign(ctx context.Context, lp *rentals.LeadsProperty) (*rentals.LeadsProperty, error) {
	if lp.LeadsUniqueID == "" || lp.PropertiesUniqueID == "" {
		return nil, invalidf("leads_unique_id and properties_unique_id are required")
	}
	// Both ends must exist before the join row is attempted.
	if _, err := s.leadRepo.GetByUniqueID(ctx, nil, lp.LeadsUniqueID); err != nil {
		return nil, err
	}
	if _, err := s.propertyRepo.GetByUniqueID(ctx, nil, lp.PropertiesUniqueID); err != nil {
		return nil, err
	}

	created, err := s.leadsPropertyRepo.Create(ctx, nil, lp)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, sse.SSEMessage{
			Channel: sse.LeadChannel(lp.LeadsUniqueID),
			Event:   sse.SSEEventLeadAssigned,
			Data:    created,
		})
	}
	return created, nil
}

func (s *assignmentService) Get(ctx context.Context, leadUniqueID, propertyUniqueID string) (*rentals.LeadsProperty, error) {
	return s.leadsPropertyRepo.GetByPair(ctx, nil, leadUniqueID, propertyUniqueID)
}

func (s *assignmentService) ListForLead(ctx context.Context, leadUniqueID string) ([]*rentals.LeadsProperty, error) {
	return s.leadsPropertyRepo.ListByLead(ctx, nil, leadUniqueID)
}

func (s *assignmentService) ListForProperty(ctx context.Context, propertyUniqueID string) ([]*rentals.LeadsProperty, error) {
	return s.leadsPropertyRepo.ListByProperty(ctx, nil, propertyUniqueID)
}

func (s *assignmentService) Update(ctx context.Context, leadUniqueID, propertyUniqueID string, fields map[string]any) (*rentals.LeadsProperty, error) {
	patch := map[string]any{}
	for k, v := range fields {
		switch k {
		case "scheduled_visit_date", "status":
			patch[k] = v
		}
	}
	if len(patch) == 0 {
		return nil, invalidf("no updatable fields in request")
	}
	if err := s.leadsPropertyRepo.UpdateFields(ctx, nil, leadUniqueID, propertyUniqueID, patch); err != nil {
		return nil, err
	}
	return s.leadsPropertyRepo.GetByPair(ctx, nil, leadUniqueID, propertyUniqueID)
}

func (s *assignmentService) Unassign(ctx context.Context, leadUniqueID, propertyUniqueID string) error {
	if _, err := s.leadsPropertyRepo.GetByPair(ctx, nil, leadUniqueID, propertyUniqueID); err != nil {
		return err
	}
	return s.leadsPropertyRepo.DeleteByPair(ctx, nil, leadUniqueID, propertyUniqueID)
}

package services

import (
	"context"

	"gorm.io/gorm"

	repos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

type RentalService interface {
	Upsert(ctx context.Context, r *rentals.PropertyRental) (*rentals.PropertyRental, error)
	Get(ctx context.Context, propertyUniqueID string) (*rentals.PropertyRental, error)
	ListByStatus(ctx context.Context, status string) ([]*rentals.PropertyRental, error)
	Delete(ctx context.Context, propertyUniqueID string) error
}

type rentalService struct {
	db           *gorm.DB
	log          *logger.Logger
	rentalRepo   repos.PropertyRentalRepo
	propertyRepo repos.PropertyRepo
}

func NewRentalService(db *gorm.DB, baseLog *logger.Logger, rentalRepo repos.PropertyRentalRepo, propertyRepo repos.PropertyRepo) RentalService {
	return &rentalService{
		db:           db,
		log:          baseLog.With("service", "RentalService"),
		rentalRepo:   rentalRepo,
		propertyRepo: propertyRepo,
	}
}

func (s *rentalService) Upsert(ctx context.Context, r *rentals.PropertyRental) (*rentals.PropertyRental, error) {
	if r.PropertyUniqueID == "" {
		return nil, invalidf("property_unique_id is required")
	}
	if r.PaymentDay < 0 || r.PaymentDay > 28 {
		return nil, invalidf("payment_day must be between 1 and 28")
	}
	if _, err := s.propertyRepo.GetByUniqueID(ctx, nil, r.PropertyUniqueID); err != nil {
		return nil, err
	}
	return s.rentalRepo.Upsert(ctx, nil, r)
}

func (s *rentalService) Get(ctx context.Context, propertyUniqueID string) (*rentals.PropertyRental, error) {
	return s.rentalRepo.GetByProperty(ctx, nil, propertyUniqueID)
}

func (s *rentalService) ListByStatus(ctx context.Context, status string) ([]*rentals.PropertyRental, error) {
	return s.rentalRepo.ListByStatus(ctx, nil, status)
}

func (s *rentalService) Delete(ctx context.Context, propertyUniqueID string) error {
	if _, err := s.rentalRepo.GetByProperty(ctx, nil, propertyUniqueID); err != nil {
		return err
	}
	return s.rentalRepo.DeleteByProperty(ctx, nil, propertyUniqueID)
}

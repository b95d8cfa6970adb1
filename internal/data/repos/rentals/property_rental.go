package rentals

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

type PropertyRentalRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, pr *rentals.PropertyRental) (*rentals.PropertyRental, error)
	GetByProperty(ctx context.Context, tx *gorm.DB, propertyUniqueID string) (*rentals.PropertyRental, error)
	ListByStatus(ctx context.Context, tx *gorm.DB, status string) ([]*rentals.PropertyRental, error)
	DeleteByProperty(ctx context.Context, tx *gorm.DB, propertyUniqueID string) error
}

type propertyRentalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPropertyRentalRepo(db *gorm.DB, baseLog *logger.Logger) PropertyRentalRepo {
	return &propertyRentalRepo{db: db, log: baseLog.With("repo", "PropertyRentalRepo")}
}

func (r *propertyRentalRepo) Upsert(ctx context.Context, tx *gorm.DB, pr *rentals.PropertyRental) (*rentals.PropertyRental, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	pr.UpdatedAt = time.Now()
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "property_unique_id"}},
			UpdateAll: true,
		}).
		Create(pr).Error; err != nil {
		return nil, err
	}
	return pr, nil
}

func (r *propertyRentalRepo) GetByProperty(ctx context.Context, tx *gorm.DB, propertyUniqueID string) (*rentals.PropertyRental, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result rentals.PropertyRental
	if err := transaction.WithContext(ctx).
		Where("property_unique_id = ?", propertyUniqueID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *propertyRentalRepo) ListByStatus(ctx context.Context, tx *gorm.DB, status string) ([]*rentals.PropertyRental, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&rentals.PropertyRental{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var results []*rentals.PropertyRental
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *propertyRentalRepo) DeleteByProperty(ctx context.Context, tx *gorm.DB, propertyUniqueID string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("property_unique_id = ?", propertyUniqueID).
		Delete(&rentals.PropertyRental{}).Error
}

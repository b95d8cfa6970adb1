package rentals

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

type PropertyTenantRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, t *rentals.PropertyTenant) (*rentals.PropertyTenant, error)
	GetByProperty(ctx context.Context, tx *gorm.DB, propertyUniqueID string) (*rentals.PropertyTenant, error)
	DeleteByProperty(ctx context.Context, tx *gorm.DB, propertyUniqueID string) error
}

type propertyTenantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPropertyTenantRepo(db *gorm.DB, baseLog *logger.Logger) PropertyTenantRepo {
	return &propertyTenantRepo{db: db, log: baseLog.With("repo", "PropertyTenantRepo")}
}

func (r *propertyTenantRepo) Upsert(ctx context.Context, tx *gorm.DB, t *rentals.PropertyTenant) (*rentals.PropertyTenant, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	t.UpdatedAt = time.Now()
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "property_unique_id"}},
			UpdateAll: true,
		}).
		Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (r *propertyTenantRepo) GetByProperty(ctx context.Context, tx *gorm.DB, propertyUniqueID string) (*rentals.PropertyTenant, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result rentals.PropertyTenant
	if err := transaction.WithContext(ctx).
		Where("property_unique_id = ?", propertyUniqueID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *propertyTenantRepo) DeleteByProperty(ctx context.Context, tx *gorm.DB, propertyUniqueID string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("property_unique_id = ?", propertyUniqueID).
		Delete(&rentals.PropertyTenant{}).Error
}

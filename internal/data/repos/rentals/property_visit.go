package rentals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

type PropertyVisitRepo interface {
	Create(ctx context.Context, tx *gorm.DB, v *rentals.PropertyVisit) (*rentals.PropertyVisit, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*rentals.PropertyVisit, error)
	ListByProperty(ctx context.Context, tx *gorm.DB, propertyUniqueID string) ([]*rentals.PropertyVisit, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type propertyVisitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPropertyVisitRepo(db *gorm.DB, baseLog *logger.Logger) PropertyVisitRepo {
	return &propertyVisitRepo{db: db, log: baseLog.With("repo", "PropertyVisitRepo")}
}

func (r *propertyVisitRepo) Create(ctx context.Context, tx *gorm.DB, v *rentals.PropertyVisit) (*rentals.PropertyVisit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

func (r *propertyVisitRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*rentals.PropertyVisit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result rentals.PropertyVisit
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *propertyVisitRepo) ListByProperty(ctx context.Context, tx *gorm.DB, propertyUniqueID string) ([]*rentals.PropertyVisit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*rentals.PropertyVisit
	if err := transaction.WithContext(ctx).
		Where("property_unique_id = ?", propertyUniqueID).
		Order("visit_date DESC NULLS LAST").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *propertyVisitRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fields) == 0 {
		return nil
	}
	updates := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["updated_at"] = time.Now()
	return transaction.WithContext(ctx).
		Model(&rentals.PropertyVisit{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *propertyVisitRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&rentals.PropertyVisit{}).Error
}

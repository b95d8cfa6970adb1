package rentals

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

type LeadsPropertyRepo interface {
	// Create relies on the unique (lead, property) index; a duplicate pair
	// surfaces as gorm.ErrDuplicatedKey.
	Create(ctx context.Context, tx *gorm.DB, lp *rentals.LeadsProperty) (*rentals.LeadsProperty, error)
	GetByPair(ctx context.Context, tx *gorm.DB, leadUniqueID, propertyUniqueID string) (*rentals.LeadsProperty, error)
	ListByLead(ctx context.Context, tx *gorm.DB, leadUniqueID string) ([]*rentals.LeadsProperty, error)
	ListByProperty(ctx context.Context, tx *gorm.DB, propertyUniqueID string) ([]*rentals.LeadsProperty, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, leadUniqueID, propertyUniqueID string, fields map[string]any) error
	DeleteByPair(ctx context.Context, tx *gorm.DB, leadUniqueID, propertyUniqueID string) error
}

type leadsPropertyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLeadsPropertyRepo(db *gorm.DB, baseLog *logger.Logger) LeadsPropertyRepo {
	return &leadsPropertyRepo{db: db, log: baseLog.With("repo", "LeadsPropertyRepo")}
}

func (r *leadsPropertyRepo) Create(ctx context.Context, tx *gorm.DB, lp *rentals.LeadsProperty) (*rentals.LeadsProperty, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(lp).Error; err != nil {
		return nil, err
	}
	return lp, nil
}

func (r *leadsPropertyRepo) GetByPair(ctx context.Context, tx *gorm.DB, leadUniqueID, propertyUniqueID string) (*rentals.LeadsProperty, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result rentals.LeadsProperty
	if err := transaction.WithContext(ctx).
		Where("leads_unique_id = ? AND properties_unique_id = ?", leadUniqueID, propertyUniqueID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *leadsPropertyRepo) ListByLead(ctx context.Context, tx *gorm.DB, leadUniqueID string) ([]*rentals.LeadsProperty, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*rentals.LeadsProperty
	if err := transaction.WithContext(ctx).
		Where("leads_unique_id = ?", leadUniqueID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *leadsPropertyRepo) ListByProperty(ctx context.Context, tx *gorm.DB, propertyUniqueID string) ([]*rentals.LeadsProperty, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*rentals.LeadsProperty
	if err := transaction.WithContext(ctx).
		Where("properties_unique_id = ?", propertyUniqueID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *leadsPropertyRepo) UpdateFields(ctx context.Context, tx *gorm.DB, leadUniqueID, propertyUniqueID string, fields map[string]any) error {
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
		Model(&rentals.LeadsProperty{}).
		Where("leads_unique_id = ? AND properties_unique_id = ?", leadUniqueID, propertyUniqueID).
		Updates(updates).Error
}

func (r *leadsPropertyRepo) DeleteByPair(ctx context.Context, tx *gorm.DB, leadUniqueID, propertyUniqueID string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("leads_unique_id = ? AND properties_unique_id = ?", leadUniqueID, propertyUniqueID).
		Delete(&rentals.LeadsProperty{}).Error
}

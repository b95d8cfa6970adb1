package rentals

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

// PropertyFilter carries the list-endpoint query filters. Zero values mean
// "no constraint".
type PropertyFilter struct {
	City        string
	AreaCluster string
	Stage       string
	Statuses    []string
	MaxPrice    *float64
	MinBedrooms *int
}

type PropertyRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, p *rentals.Property) (*rentals.Property, error)
	GetByUniqueID(ctx context.Context, tx *gorm.DB, uniqueID string) (*rentals.Property, error)
	List(ctx context.Context, tx *gorm.DB, f PropertyFilter) ([]*rentals.Property, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, uniqueID string, fields map[string]any) error
	UpdateSectionReviews(ctx context.Context, tx *gorm.DB, uniqueID string, reviews datatypes.JSON) error
	DeleteByUniqueID(ctx context.Context, tx *gorm.DB, uniqueID string) error
}

type propertyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPropertyRepo(db *gorm.DB, baseLog *logger.Logger) PropertyRepo {
	return &propertyRepo{db: db, log: baseLog.With("repo", "PropertyRepo")}
}

// Upsert inserts the property or, when a row with the same unique id already
// exists, overwrites its columns in a single atomic statement.
func (r *propertyRepo) Upsert(ctx context.Context, tx *gorm.DB, p *rentals.Property) (*rentals.Property, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	p.UpdatedAt = time.Now()
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "property_unique_id"}},
			UpdateAll: true,
		}).
		Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *propertyRepo) GetByUniqueID(ctx context.Context, tx *gorm.DB, uniqueID string) (*rentals.Property, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result rentals.Property
	if err := transaction.WithContext(ctx).
		Where("property_unique_id = ?", uniqueID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *propertyRepo) List(ctx context.Context, tx *gorm.DB, f PropertyFilter) ([]*rentals.Property, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&rentals.Property{})
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.AreaCluster != "" {
		q = q.Where("area_cluster = ?", f.AreaCluster)
	}
	if f.Stage != "" {
		q = q.Where("current_stage = ?", f.Stage)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.MaxPrice != nil {
		q = q.Where("purchase_price <= ?", *f.MaxPrice)
	}
	if f.MinBedrooms != nil {
		q = q.Where("bedrooms >= ?", *f.MinBedrooms)
	}
	var results []*rentals.Property
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *propertyRepo) UpdateFields(ctx context.Context, tx *gorm.DB, uniqueID string, fields map[string]any) error {
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
		Model(&rentals.Property{}).
		Where("property_unique_id = ?", uniqueID).
		Updates(updates).Error
}

func (r *propertyRepo) UpdateSectionReviews(ctx context.Context, tx *gorm.DB, uniqueID string, reviews datatypes.JSON) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&rentals.Property{}).
		Where("property_unique_id = ?", uniqueID).
		Updates(map[string]any{
			"prophero_section_reviews": reviews,
			"updated_at":               time.Now(),
		}).Error
}

func (r *propertyRepo) DeleteByUniqueID(ctx context.Context, tx *gorm.DB, uniqueID string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("property_unique_id = ?", uniqueID).
		Delete(&rentals.Property{}).Error
}

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

type LeadFilter struct {
	Status           string
	EmploymentStatus string
	MaxBudget        *float64
}

type LeadRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, l *rentals.Lead) (*rentals.Lead, error)
	GetByUniqueID(ctx context.Context, tx *gorm.DB, uniqueID string) (*rentals.Lead, error)
	List(ctx context.Context, tx *gorm.DB, f LeadFilter) ([]*rentals.Lead, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, uniqueID string, fields map[string]any) error
	UpdateLaboralFinancialDocs(ctx context.Context, tx *gorm.DB, uniqueID string, docs datatypes.JSON) error
	DeleteByUniqueID(ctx context.Context, tx *gorm.DB, uniqueID string) error
}

type leadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLeadRepo(db *gorm.DB, baseLog *logger.Logger) LeadRepo {
	return &leadRepo{db: db, log: baseLog.With("repo", "LeadRepo")}
}

func (r *leadRepo) Upsert(ctx context.Context, tx *gorm.DB, l *rentals.Lead) (*rentals.Lead, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	l.UpdatedAt = time.Now()
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "leads_unique_id"}},
			UpdateAll: true,
		}).
		Create(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

func (r *leadRepo) GetByUniqueID(ctx context.Context, tx *gorm.DB, uniqueID string) (*rentals.Lead, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result rentals.Lead
	if err := transaction.WithContext(ctx).
		Where("leads_unique_id = ?", uniqueID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *leadRepo) List(ctx context.Context, tx *gorm.DB, f LeadFilter) ([]*rentals.Lead, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&rentals.Lead{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.EmploymentStatus != "" {
		q = q.Where("employment_status = ?", f.EmploymentStatus)
	}
	if f.MaxBudget != nil {
		q = q.Where("budget <= ?", *f.MaxBudget)
	}
	var results []*rentals.Lead
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *leadRepo) UpdateFields(ctx context.Context, tx *gorm.DB, uniqueID string, fields map[string]any) error {
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
		Model(&rentals.Lead{}).
		Where("leads_unique_id = ?", uniqueID).
		Updates(updates).Error
}

func (r *leadRepo) UpdateLaboralFinancialDocs(ctx context.Context, tx *gorm.DB, uniqueID string, docs datatypes.JSON) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&rentals.Lead{}).
		Where("leads_unique_id = ?", uniqueID).
		Updates(map[string]any{
			"laboral_financial_docs": docs,
			"updated_at":             time.Now(),
		}).Error
}

func (r *leadRepo) DeleteByUniqueID(ctx context.Context, tx *gorm.DB, uniqueID string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("leads_unique_id = ?", uniqueID).
		Delete(&rentals.Lead{}).Error
}

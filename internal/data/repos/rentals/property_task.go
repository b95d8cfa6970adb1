package rentals

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

type PropertyTaskRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, t *rentals.PropertyTask) (*rentals.PropertyTask, error)
	GetByKey(ctx context.Context, tx *gorm.DB, propertyUniqueID, phase, taskType string) (*rentals.PropertyTask, error)
	ListByProperty(ctx context.Context, tx *gorm.DB, propertyUniqueID string) ([]*rentals.PropertyTask, error)
	ListByPhase(ctx context.Context, tx *gorm.DB, propertyUniqueID, phase string) ([]*rentals.PropertyTask, error)
	SetCompletion(ctx context.Context, tx *gorm.DB, propertyUniqueID, phase, taskType string, completed bool) error
	DeleteByKey(ctx context.Context, tx *gorm.DB, propertyUniqueID, phase, taskType string) error
}

type propertyTaskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPropertyTaskRepo(db *gorm.DB, baseLog *logger.Logger) PropertyTaskRepo {
	return &propertyTaskRepo{db: db, log: baseLog.With("repo", "PropertyTaskRepo")}
}

func (r *propertyTaskRepo) Upsert(ctx context.Context, tx *gorm.DB, t *rentals.PropertyTask) (*rentals.PropertyTask, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	t.UpdatedAt = time.Now()
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "property_unique_id"},
				{Name: "phase"},
				{Name: "task_type"},
			},
			UpdateAll: true,
		}).
		Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (r *propertyTaskRepo) GetByKey(ctx context.Context, tx *gorm.DB, propertyUniqueID, phase, taskType string) (*rentals.PropertyTask, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result rentals.PropertyTask
	if err := transaction.WithContext(ctx).
		Where("property_unique_id = ? AND phase = ? AND task_type = ?", propertyUniqueID, phase, taskType).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *propertyTaskRepo) ListByProperty(ctx context.Context, tx *gorm.DB, propertyUniqueID string) ([]*rentals.PropertyTask, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*rentals.PropertyTask
	if err := transaction.WithContext(ctx).
		Where("property_unique_id = ?", propertyUniqueID).
		Order("phase, task_type").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *propertyTaskRepo) ListByPhase(ctx context.Context, tx *gorm.DB, propertyUniqueID, phase string) ([]*rentals.PropertyTask, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*rentals.PropertyTask
	if err := transaction.WithContext(ctx).
		Where("property_unique_id = ? AND phase = ?", propertyUniqueID, phase).
		Order("task_type").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// SetCompletion flips is_completed and keeps completed_at in lockstep with it.
func (r *propertyTaskRepo) SetCompletion(ctx context.Context, tx *gorm.DB, propertyUniqueID, phase, taskType string, completed bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now()
	updates := map[string]any{
		"is_completed": completed,
		"updated_at":   now,
	}
	if completed {
		updates["completed_at"] = now
	} else {
		updates["completed_at"] = gorm.Expr("NULL")
	}
	res := transaction.WithContext(ctx).
		Model(&rentals.PropertyTask{}).
		Where("property_unique_id = ? AND phase = ? AND task_type = ?", propertyUniqueID, phase, taskType).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *propertyTaskRepo) DeleteByKey(ctx context.Context, tx *gorm.DB, propertyUniqueID, phase, taskType string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("property_unique_id = ? AND phase = ? AND task_type = ?", propertyUniqueID, phase, taskType).
		Delete(&rentals.PropertyTask{}).Error
}

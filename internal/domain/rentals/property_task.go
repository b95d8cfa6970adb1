package rentals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PropertyTask struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PropertyUniqueID string    `gorm:"column:property_unique_id;not null;uniqueIndex:idx_property_phase_task" json:"property_unique_id"`
	Phase            string    `gorm:"column:phase;not null;uniqueIndex:idx_property_phase_task" json:"phase"`
	TaskType         string    `gorm:"column:task_type;not null;uniqueIndex:idx_property_phase_task" json:"task_type"`

	// CompletedAt is set/cleared in lockstep with IsCompleted.
	IsCompleted bool           `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	TaskData    datatypes.JSON `gorm:"column:task_data;type:jsonb" json:"task_data"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PropertyTask) TableName() string { return "property_tasks" }

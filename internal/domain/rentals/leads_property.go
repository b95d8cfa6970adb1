package rentals

import (
	"time"

	"github.com/google/uuid"
)

// LeadsProperty links a lead to a property. The pair is unique; assigning the
// same pair twice is a conflict.
type LeadsProperty struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LeadsUniqueID      string     `gorm:"column:leads_unique_id;not null;uniqueIndex:idx_lead_property" json:"leads_unique_id"`
	PropertiesUniqueID string     `gorm:"column:properties_unique_id;not null;uniqueIndex:idx_lead_property" json:"properties_unique_id"`
	ScheduledVisitDate *time.Time `gorm:"column:scheduled_visit_date" json:"scheduled_visit_date,omitempty"`
	Status             string     `gorm:"column:status" json:"status"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (LeadsProperty) TableName() string { return "leads_properties" }

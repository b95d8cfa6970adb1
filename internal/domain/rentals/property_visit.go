package rentals

import (
	"time"

	"github.com/google/uuid"
)

type PropertyVisit struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PropertyUniqueID string    `gorm:"column:property_unique_id;not null;index" json:"property_unique_id"`

	VisitorName  string     `gorm:"column:visitor_name;not null" json:"visitor_name"`
	VisitorEmail string     `gorm:"column:visitor_email" json:"visitor_email"`
	VisitorPhone string     `gorm:"column:visitor_phone" json:"visitor_phone"`
	VisitDate    *time.Time `gorm:"column:visit_date;index" json:"visit_date,omitempty"`
	Status       string     `gorm:"column:status;index" json:"status"`
	Notes        string     `gorm:"column:notes;type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PropertyVisit) TableName() string { return "property_visits" }

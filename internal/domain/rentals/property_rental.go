package rentals

import (
	"time"

	"github.com/google/uuid"
)

// PropertyRental holds the active rental contract for a property; one row per
// property.
type PropertyRental struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PropertyUniqueID string    `gorm:"column:property_unique_id;not null;uniqueIndex" json:"property_unique_id"`

	RentAmount    float64    `gorm:"column:rent_amount" json:"rent_amount"`
	DepositAmount float64    `gorm:"column:deposit_amount" json:"deposit_amount"`
	StartDate     *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate       *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	PaymentDay    int        `gorm:"column:payment_day" json:"payment_day"`
	Status        string     `gorm:"column:status;index" json:"status"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PropertyRental) TableName() string { return "property_rentals" }

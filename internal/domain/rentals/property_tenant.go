package rentals

import (
	"time"

	"github.com/google/uuid"
)

// PropertyTenant holds tenant details for a property; one row per property.
type PropertyTenant struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PropertyUniqueID string    `gorm:"column:property_unique_id;not null;uniqueIndex" json:"property_unique_id"`

	FullName       string  `gorm:"column:full_name;not null" json:"full_name"`
	Email          string  `gorm:"column:email" json:"email"`
	Phone          string  `gorm:"column:phone" json:"phone"`
	NationalID     string  `gorm:"column:national_id" json:"national_id"`
	MonthlyIncome  float64 `gorm:"column:monthly_income" json:"monthly_income"`
	BankAccount    string  `gorm:"column:bank_account" json:"bank_account"`
	EmergencyPhone string  `gorm:"column:emergency_phone" json:"emergency_phone"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PropertyTenant) TableName() string { return "property_tenants" }

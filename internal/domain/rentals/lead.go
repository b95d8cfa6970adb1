package rentals

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EmploymentEmployed     = "employed"
	EmploymentSelfEmployed = "self_employed"
	EmploymentRetired      = "retired"
	EmploymentUnemployed   = "unemployed"
	EmploymentStudent      = "student"

	ContractPermanent = "permanent"
	ContractTemporary = "temporary"
)

type Lead struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LeadsUniqueID string   `gorm:"column:leads_unique_id;not null;uniqueIndex" json:"leads_unique_id"`

	FullName string `gorm:"column:full_name;not null" json:"full_name"`
	Email    string `gorm:"column:email;index" json:"email"`
	Phone    string `gorm:"column:phone" json:"phone"`

	EmploymentStatus       string  `gorm:"column:employment_status;index" json:"employment_status"`
	EmploymentContractType string  `gorm:"column:employment_contract_type" json:"employment_contract_type"`
	MonthlyIncome          float64 `gorm:"column:monthly_income" json:"monthly_income"`
	Budget                 float64 `gorm:"column:budget" json:"budget"`

	Status string `gorm:"column:status;index" json:"status"`

	LaboralFinancialDocs datatypes.JSON `gorm:"column:laboral_financial_docs;type:jsonb" json:"laboral_financial_docs"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lead) TableName() string { return "leads" }

type ComplementaryDoc struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// LaboralFinancialDocs holds a lead's uploaded documents. Obligatory keys are
// a pure function of the lead's employment status and contract type; the map
// is wiped whenever either field changes.
type LaboralFinancialDocs struct {
	Obligatory    map[string]string  `json:"obligatory"`
	Complementary []ComplementaryDoc `json:"complementary"`
}

func ParseLaboralFinancialDocs(raw datatypes.JSON) (LaboralFinancialDocs, error) {
	docs := LaboralFinancialDocs{Obligatory: map[string]string{}}
	if len(raw) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return LaboralFinancialDocs{Obligatory: map[string]string{}}, err
	}
	if docs.Obligatory == nil {
		docs.Obligatory = map[string]string{}
	}
	return docs, nil
}

func (d LaboralFinancialDocs) Encode() (datatypes.JSON, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

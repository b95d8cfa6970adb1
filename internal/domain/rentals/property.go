package rentals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Workflow stages a property moves through. StageProphero is the only stage
// where section reviews are active.
const (
	StageSourcing = "Sourcing"
	StageProphero = "Viviendas Prophero"
	StagePublished = "Publicada"
	StageRented   = "Alquilada"
)

// Stages lists the kanban columns in board order.
var Stages = []string{StageSourcing, StageProphero, StagePublished, StageRented}

type Property struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PropertyUniqueID string    `gorm:"column:property_unique_id;not null;uniqueIndex" json:"property_unique_id"`

	Address     string  `gorm:"column:address" json:"address"`
	City        string  `gorm:"column:city;index" json:"city"`
	AreaCluster string  `gorm:"column:area_cluster;index" json:"area_cluster"`
	Bedrooms    int     `gorm:"column:bedrooms" json:"bedrooms"`
	Bathrooms   int     `gorm:"column:bathrooms" json:"bathrooms"`
	SquareMeters float64 `gorm:"column:square_meters" json:"square_meters"`
	RentalType  string  `gorm:"column:rental_type" json:"rental_type"`

	PurchasePrice  float64 `gorm:"column:purchase_price" json:"purchase_price"`
	TargetRent     float64 `gorm:"column:target_rent" json:"target_rent"`
	RenovationCost float64 `gorm:"column:renovation_cost" json:"renovation_cost"`

	CurrentStage  string `gorm:"column:current_stage;index" json:"current_stage"`
	CurrentPhase  string `gorm:"column:current_phase" json:"current_phase"`
	Status        string `gorm:"column:status;index" json:"status"`
	AnalystStatus string `gorm:"column:analyst_status" json:"analyst_status"`

	// One column per required document; each holds a signed URL.
	DocEnergyCertificate    string `gorm:"column:doc_energy_certificate" json:"doc_energy_certificate"`
	DocPurchaseContract     string `gorm:"column:doc_purchase_contract" json:"doc_purchase_contract"`
	DocLandRegistryNote     string `gorm:"column:doc_land_registry_note" json:"doc_land_registry_note"`
	DocIBANCertificate      string `gorm:"column:doc_iban_certificate" json:"doc_iban_certificate"`
	DocUtilityContractPower string `gorm:"column:doc_utility_contract_power" json:"doc_utility_contract_power"`
	DocUtilityContractWater string `gorm:"column:doc_utility_contract_water" json:"doc_utility_contract_water"`
	DocUtilityBillPower     string `gorm:"column:doc_utility_bill_power" json:"doc_utility_bill_power"`
	DocUtilityBillWater     string `gorm:"column:doc_utility_bill_water" json:"doc_utility_bill_water"`
	DocHomeInsurance        string `gorm:"column:doc_home_insurance" json:"doc_home_insurance"`

	RenovationFileURLs     datatypes.JSON `gorm:"column:renovation_file_urls;type:jsonb" json:"renovation_file_urls"`
	PropheroSectionReviews datatypes.JSON `gorm:"column:prophero_section_reviews;type:jsonb" json:"prophero_section_reviews"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Property) TableName() string { return "properties" }

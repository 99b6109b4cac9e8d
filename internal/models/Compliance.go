// internal/models/compliance.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Reference compliance check names seeded at startup.
const (
	ComplianceTypePME = "PME"  // periodic medical examination
	ComplianceTypeGRS = "GRS"  // general rules refresher
	ComplianceTypeTR4 = "TR_4" // traction route re-certification
	ComplianceTypeOC  = "OC"   // operational competency
)

// ComplianceType is reference data describing a recurring regulatory check.
type ComplianceType struct {
	gorm.Model
	Name                   string `json:"name" gorm:"unique;not null"`
	Description            string `json:"description"`
	DefaultFrequencyMonths int    `json:"default_frequency_months"`
	IsActive               bool   `json:"is_active" gorm:"default:true"`
}

// DriverCompliance records one completion of a compliance check and the
// caller-computed due date for the next one. DueDate is never recomputed
// server-side.
type DriverCompliance struct {
	gorm.Model
	DriverProfileID  uint            `json:"driver_profile_id" gorm:"index"`
	DriverProfile    *DriverProfile  `gorm:"foreignKey:DriverProfileID" json:"driver_profile,omitempty"`
	ComplianceTypeID uint            `json:"compliance_type_id" gorm:"index"`
	ComplianceType   *ComplianceType `gorm:"foreignKey:ComplianceTypeID" json:"compliance_type,omitempty"`

	DoneDate        time.Time `json:"done_date"`
	DueDate         time.Time `json:"due_date" gorm:"index"`
	FrequencyMonths int       `json:"frequency_months"`
	Notes           string    `json:"notes"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
}

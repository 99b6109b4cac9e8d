// internal/models/maintenance.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type MaintenanceType struct {
	gorm.Model
	Name        string `json:"name" gorm:"unique;not null"`
	Description string `json:"description"`
	// Due tracking is either calendar-based or running-hours-based; a type
	// may carry defaults for either discipline.
	DefaultFrequencyMonths int  `json:"default_frequency_months"`
	DefaultFrequencyHours  int  `json:"default_frequency_hours"`
	IsActive               bool `json:"is_active" gorm:"default:true"`
}

// MaintenanceSchedule mirrors DriverCompliance for depot equipment. Date
// fields are null for purely hours-based schedules and vice versa.
type MaintenanceSchedule struct {
	gorm.Model
	AssetID           uint             `json:"asset_id" gorm:"index"`
	Asset             *Asset           `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	MaintenanceTypeID uint             `json:"maintenance_type_id" gorm:"index"`
	MaintenanceType   *MaintenanceType `gorm:"foreignKey:MaintenanceTypeID" json:"maintenance_type,omitempty"`

	LastCompletedDate  *time.Time `json:"last_completed_date"`
	NextDueDate        *time.Time `json:"next_due_date" gorm:"index"`
	LastCompletedHours *int       `json:"last_completed_hours"`
	NextDueHours       *int       `json:"next_due_hours"`
	Notes              string     `json:"notes"`
	IsActive           bool       `json:"is_active" gorm:"default:true"`
}

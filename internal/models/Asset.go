// internal/models/asset.go
package models

import "gorm.io/gorm"

// Asset is a piece of depot equipment tracked for periodic maintenance.
type Asset struct {
	gorm.Model
	Name         string `json:"name" binding:"required"`
	AssetNumber  string `json:"asset_number" gorm:"unique;not null"`
	Category     string `json:"category"`
	Location     string `json:"location"`
	DepotID      uint   `json:"depot_id" gorm:"index"`
	Depot        *Depot `gorm:"foreignKey:DepotID" json:"depot,omitempty"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	Schedules []MaintenanceSchedule `gorm:"foreignKey:AssetID" json:"schedules,omitempty"`
}

// internal/models/depot.go
package models

import "gorm.io/gorm"

// Depot is the organizational unit owning drivers, assets and
// depot-custom route sections.
type Depot struct {
	gorm.Model
	Name     string `json:"name" binding:"required"`
	Code     string `json:"code" gorm:"unique;not null" binding:"required"`
	Address  string `json:"address"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	Users          []User          `gorm:"foreignKey:DepotID" json:"users,omitempty"`
	DriverProfiles []DriverProfile `gorm:"foreignKey:DepotID" json:"driver_profiles,omitempty"`
	Assets         []Asset         `gorm:"foreignKey:DepotID" json:"assets,omitempty"`
}

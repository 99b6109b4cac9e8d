// internal/models/route_section.go
package models

import "gorm.io/gorm"

// RouteSection is a stretch of line a driver can be authorized on.
// Predefined sections are shared across depots (DepotID null) and are
// immutable; depot-custom sections belong to exactly one depot.
type RouteSection struct {
	gorm.Model
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	IsPredefined bool   `json:"is_predefined"`
	DepotID      *uint  `json:"depot_id" gorm:"index"`
	Depot        *Depot `gorm:"foreignKey:DepotID" json:"depot,omitempty"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
}

// internal/models/driver_route_auth.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// DriverRouteAuth is a time-bounded permission for a driver to operate on a
// route section. ExpiryDate must be strictly after AuthorizedDate, enforced
// at write time.
type DriverRouteAuth struct {
	gorm.Model
	DriverProfileID uint           `json:"driver_profile_id" gorm:"index"`
	DriverProfile   *DriverProfile `gorm:"foreignKey:DriverProfileID" json:"driver_profile,omitempty"`
	RouteSectionID  uint           `json:"route_section_id" gorm:"index"`
	RouteSection    *RouteSection  `gorm:"foreignKey:RouteSectionID" json:"route_section,omitempty"`

	AuthorizedDate time.Time `json:"authorized_date"`
	ExpiryDate     time.Time `json:"expiry_date" gorm:"index"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
}

package models

import "gorm.io/gorm"

type Role string

const (
	RoleSuperAdmin   Role = "SUPER_ADMIN"
	RoleDepotManager Role = "DEPOT_MANAGER"
	RoleDriver       Role = "DRIVER"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleDepotManager, RoleDriver:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Email        string `json:"email" gorm:"unique;not null"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	// DepotID is null only for SUPER_ADMIN. Managers and drivers without a
	// depot are unusable; the service layer enforces this, not the schema.
	DepotID  *uint  `json:"depot_id" gorm:"index"`
	Depot    *Depot `gorm:"foreignKey:DepotID" json:"depot,omitempty"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	DriverProfile *DriverProfile `gorm:"foreignKey:UserID" json:"driver_profile,omitempty"`
}

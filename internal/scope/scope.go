// Package scope decides row-level visibility for a caller. Services compose
// these decisions with their queries; handlers never touch them directly, so
// tests can construct arbitrary actors and check what each one may see.
package scope

import (
	"errors"

	"gorm.io/gorm"

	"depot_tracker/internal/auth"
	"depot_tracker/internal/models"
)

var (
	// ErrManagerMissingDepot is a configuration fault: a depot manager
	// account without a depot cannot be scoped at all.
	ErrManagerMissingDepot = errors.New("manager missing depot")
	ErrAccessDenied        = errors.New("access denied")
)

// Scope is the resolved visibility for one caller. Exactly one of the three
// shapes applies: All (super admin), DepotID set (manager), or DriverUserID
// set (driver, narrowed to the profile owned by that user).
type Scope struct {
	All          bool
	DepotID      uint
	DriverUserID uint
}

// Resolve maps an actor to its row visibility. Managers without a depot are
// rejected here, before any query runs.
func Resolve(actor auth.Actor) (Scope, error) {
	switch actor.Role {
	case models.RoleSuperAdmin:
		return Scope{All: true}, nil
	case models.RoleDepotManager:
		if actor.DepotID == nil {
			return Scope{}, ErrManagerMissingDepot
		}
		return Scope{DepotID: *actor.DepotID}, nil
	case models.RoleDriver:
		return Scope{DriverUserID: actor.UserID}, nil
	}
	return Scope{}, ErrAccessDenied
}

// AllowDepot decides direct-id access to an entity owned by the given depot.
// Drivers never qualify through depot equality; their access is resolved
// against profile ownership by the owning service.
func (s Scope) AllowDepot(targetDepotID *uint) bool {
	if s.All {
		return true
	}
	if s.DriverUserID != 0 {
		return false
	}
	return targetDepotID != nil && *targetDepotID == s.DepotID
}

// DepotFilter restricts a listing on a table that carries its own depot_id
// column. Super admins pass through unfiltered.
func (s Scope) DepotFilter(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.All {
			return db
		}
		return db.Where(column+" = ?", s.DepotID)
	}
}

// DriverProfileFilter restricts a listing on the driver_profiles table
// itself: managers by depot, drivers to their own row.
func (s Scope) DriverProfileFilter(db *gorm.DB) *gorm.DB {
	switch {
	case s.All:
		return db
	case s.DriverUserID != 0:
		return db.Where("driver_profiles.user_id = ?", s.DriverUserID)
	default:
		return db.Where("driver_profiles.depot_id = ?", s.DepotID)
	}
}

// ThroughDriverProfile restricts a listing on a table whose depot is reached
// transitively via its driver profile (compliances, route authorizations).
// The filter rides the join, never a column the table does not have.
func (s Scope) ThroughDriverProfile(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.All {
			return db
		}
		joined := db.Joins("JOIN driver_profiles ON driver_profiles.id = " + table + ".driver_profile_id").
			Where("driver_profiles.is_active = ? AND driver_profiles.deleted_at IS NULL", true)
		if s.DriverUserID != 0 {
			return joined.Where("driver_profiles.user_id = ?", s.DriverUserID)
		}
		return joined.Where("driver_profiles.depot_id = ?", s.DepotID)
	}
}

// RouteSectionFilter restricts route section listings. Managers see the
// union of globally predefined sections and their own depot-custom ones;
// super admins and drivers see the full catalogue.
func (s Scope) RouteSectionFilter(db *gorm.DB) *gorm.DB {
	if s.All || s.DriverUserID != 0 {
		return db
	}
	return db.Where("(route_sections.is_predefined = ? AND route_sections.depot_id IS NULL) OR route_sections.depot_id = ?", true, s.DepotID)
}

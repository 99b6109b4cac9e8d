package auth

import "depot_tracker/internal/models"

// Actor is the authenticated caller context threaded through every service
// call. It is built from token claims by the middleware, or constructed
// directly in tests.
type Actor struct {
	UserID  uint
	Email   string
	Role    models.Role
	DepotID *uint
}

// IsSuperAdmin reports unrestricted cross-depot visibility.
func (a Actor) IsSuperAdmin() bool {
	return a.Role == models.RoleSuperAdmin
}

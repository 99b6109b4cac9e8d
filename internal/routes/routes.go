package routes

import (
	"github.com/gin-gonic/gin"

	"depot_tracker/internal/controllers"
)

// Controllers bundles every handler group the router mounts.
type Controllers struct {
	Auth          *controllers.AuthController
	Depot         *controllers.DepotController
	User          *controllers.UserController
	DriverProfile *controllers.DriverProfileController
	Compliance    *controllers.ComplianceController
	Route         *controllers.RouteController
	Asset         *controllers.AssetController
	Notification  *controllers.NotificationController
	Setting       *controllers.SettingController
	Audit         *controllers.AuditController
}

// SetupRouter mounts every route group. The caller attaches global
// middleware and starts the listener.
func SetupRouter(r *gin.Engine, ctl Controllers) {
	AuthRoutes(r, ctl.Auth)
	DepotRoutes(r, ctl.Depot)
	UserRoutes(r, ctl.User)
	DriverProfileRoutes(r, ctl.DriverProfile)
	ComplianceRoutes(r, ctl.Compliance)
	RouteRoutes(r, ctl.Route)
	AssetRoutes(r, ctl.Asset)
	NotificationRoutes(r, ctl.Notification)
	AdminRoutes(r, ctl.Setting, ctl.Audit)
}

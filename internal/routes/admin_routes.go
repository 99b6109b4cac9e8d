package routes

import (
	"github.com/gin-gonic/gin"

	"depot_tracker/internal/controllers"
	"depot_tracker/internal/middleware"
	"depot_tracker/internal/models"
)

// AdminRoutes mounts the settings and audit surfaces. Settings are writable
// by super admins only; the audit trail is readable by managers too, scoped
// to their depot by the service.
func AdminRoutes(r *gin.Engine, settings *controllers.SettingController, audit *controllers.AuditController) {
	s := r.Group("/settings")
	s.Use(middleware.RequireRoles(models.RoleSuperAdmin))
	{
		s.GET("", settings.List)
		s.POST("", settings.Create)
		s.PATCH("/:key", settings.Update)
	}

	r.GET("/audit-logs",
		middleware.RequireRoles(models.RoleSuperAdmin, models.RoleDepotManager),
		audit.List)
}

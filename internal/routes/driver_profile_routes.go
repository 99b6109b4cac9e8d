package routes

import (
	"github.com/gin-gonic/gin"

	"depot_tracker/internal/controllers"
	"depot_tracker/internal/middleware"
	"depot_tracker/internal/models"
)

func DriverProfileRoutes(r *gin.Engine, ctl *controllers.DriverProfileController) {
	profiles := r.Group("/driver-profiles")
	profiles.Use(middleware.RequireAuth())
	{
		profiles.GET("", ctl.List)
		profiles.GET("/:id", ctl.Get)
	}

	staff := r.Group("/driver-profiles")
	staff.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleDepotManager))
	{
		staff.POST("", ctl.Create)
		staff.PATCH("/:id", ctl.Update)
		staff.DELETE("/:id", ctl.Delete)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"depot_tracker/internal/controllers"
	"depot_tracker/internal/middleware"
	"depot_tracker/internal/models"
)

func DepotRoutes(r *gin.Engine, ctl *controllers.DepotController) {
	depots := r.Group("/depots")
	depots.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleDepotManager))
	{
		depots.GET("", ctl.List)
		depots.GET("/:id", ctl.Get)
	}

	admin := r.Group("/depots")
	admin.Use(middleware.RequireRoles(models.RoleSuperAdmin))
	{
		admin.POST("", ctl.Create)
		admin.PATCH("/:id", ctl.Update)
		admin.DELETE("/:id", ctl.Delete)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"depot_tracker/internal/controllers"
	"depot_tracker/internal/middleware"
	"depot_tracker/internal/models"
)

func AssetRoutes(r *gin.Engine, ctl *controllers.AssetController) {
	staff := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleDepotManager)

	assets := r.Group("/assets")
	assets.Use(staff)
	{
		assets.POST("", ctl.Create)
		assets.GET("", ctl.List)
		assets.GET("/:id", ctl.Get)
		assets.PATCH("/:id", ctl.Update)
		assets.DELETE("/:id", ctl.Delete)
	}

	schedules := r.Group("/maintenance-schedules")
	schedules.Use(staff)
	{
		schedules.POST("", ctl.CreateSchedule)
		schedules.GET("", ctl.ListSchedules)
		schedules.GET("/:id", ctl.GetSchedule)
		schedules.PATCH("/:id", ctl.UpdateSchedule)
		schedules.DELETE("/:id", ctl.DeleteSchedule)
	}

	r.GET("/maintenance-types", staff, ctl.ListMaintenanceTypes)
}

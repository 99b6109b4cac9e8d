package routes

import (
	"github.com/gin-gonic/gin"

	"depot_tracker/internal/controllers"
	"depot_tracker/internal/middleware"
	"depot_tracker/internal/models"
)

func ComplianceRoutes(r *gin.Engine, ctl *controllers.ComplianceController) {
	compliances := r.Group("/compliances")
	compliances.Use(middleware.RequireAuth())
	{
		compliances.GET("", ctl.List)
		compliances.GET("/:id", ctl.Get)
	}
	r.GET("/compliance-types", middleware.RequireAuth(), ctl.ListTypes)

	staff := r.Group("/compliances")
	staff.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleDepotManager))
	{
		staff.POST("", ctl.Create)
		staff.PATCH("/:id", ctl.Update)
		staff.DELETE("/:id", ctl.Delete)
	}
}

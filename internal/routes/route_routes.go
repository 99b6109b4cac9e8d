package routes

import (
	"github.com/gin-gonic/gin"

	"depot_tracker/internal/controllers"
	"depot_tracker/internal/middleware"
	"depot_tracker/internal/models"
)

func RouteRoutes(r *gin.Engine, ctl *controllers.RouteController) {
	sections := r.Group("/route-sections")
	sections.Use(middleware.RequireAuth())
	{
		sections.GET("", ctl.ListSections)
	}

	sectionStaff := r.Group("/route-sections")
	sectionStaff.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleDepotManager))
	{
		sectionStaff.POST("", ctl.CreateSection)
		sectionStaff.PATCH("/:id", ctl.UpdateSection)
		sectionStaff.DELETE("/:id", ctl.DeleteSection)
	}

	auths := r.Group("/route-authorizations")
	auths.Use(middleware.RequireAuth())
	{
		auths.GET("", ctl.ListRouteAuths)
		auths.GET("/:id", ctl.GetRouteAuth)
	}

	authStaff := r.Group("/route-authorizations")
	authStaff.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleDepotManager))
	{
		authStaff.POST("", ctl.CreateRouteAuth)
		authStaff.PATCH("/:id", ctl.UpdateRouteAuth)
		authStaff.DELETE("/:id", ctl.DeleteRouteAuth)
	}
}

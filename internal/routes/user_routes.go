package routes

import (
	"github.com/gin-gonic/gin"

	"depot_tracker/internal/controllers"
	"depot_tracker/internal/middleware"
	"depot_tracker/internal/models"
)

func UserRoutes(r *gin.Engine, ctl *controllers.UserController) {
	users := r.Group("/users")
	users.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleDepotManager))
	{
		users.POST("", ctl.Create)
		users.GET("", ctl.List)
		users.GET("/:id", ctl.Get)
		users.PATCH("/:id", ctl.Update)
		users.DELETE("/:id", ctl.Delete)
	}

	// Separate path: a static segment under /users would clash with :id.
	r.GET("/depot-admins", middleware.RequireRoles(models.RoleSuperAdmin), ctl.ListDepotAdmins)
}

package routes

import (
	"github.com/gin-gonic/gin"

	"depot_tracker/internal/controllers"
	"depot_tracker/internal/middleware"
)

func AuthRoutes(r *gin.Engine, ctl *controllers.AuthController) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", ctl.Login)
		auth.POST("/refresh", ctl.Refresh)
		auth.GET("/me", middleware.RequireAuth(), ctl.Me)
	}
}

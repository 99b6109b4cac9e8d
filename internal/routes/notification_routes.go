package routes

import (
	"github.com/gin-gonic/gin"

	"depot_tracker/internal/controllers"
	"depot_tracker/internal/middleware"
)

func NotificationRoutes(r *gin.Engine, ctl *controllers.NotificationController) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.RequireAuth())
	{
		notifications.GET("", ctl.List)
		notifications.PATCH("/:id/read", ctl.MarkRead)
		// Sits on the collection itself: a static sibling of :id would
		// clash in the route tree.
		notifications.PATCH("", ctl.MarkAllRead)
	}
}

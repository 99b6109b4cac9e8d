package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"depot_tracker/internal/middleware"
	"depot_tracker/internal/services"
)

type NotificationController struct {
	Service *services.NotificationService
}

// List returns the caller's notifications; ?is_read=true|false narrows the
// page.
func (ctl *NotificationController) List(c *gin.Context) {
	var isRead *bool
	switch c.Query("is_read") {
	case "true":
		v := true
		isRead = &v
	case "false":
		v := false
		isRead = &v
	case "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid is_read, want true or false"})
		return
	}

	notifications, err := ctl.Service.ListForUser(middleware.CurrentActor(c), isRead)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

func (ctl *NotificationController) MarkRead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctl.Service.MarkRead(middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked read"})
}

func (ctl *NotificationController) MarkAllRead(c *gin.Context) {
	if err := ctl.Service.MarkAllRead(middleware.CurrentActor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked read"})
}

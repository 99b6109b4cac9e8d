package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"depot_tracker/internal/middleware"
	"depot_tracker/internal/services"
)

type SettingController struct {
	Service *services.SettingsService
}

func (ctl *SettingController) List(c *gin.Context) {
	settings, err := ctl.Service.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settings})
}

func (ctl *SettingController) Create(c *gin.Context) {
	var input services.CreateSettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setting, err := ctl.Service.Create(middleware.CurrentActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"setting": setting})
}

func (ctl *SettingController) Update(c *gin.Context) {
	key := c.Param("key")
	var input services.UpdateSettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setting, err := ctl.Service.Update(middleware.CurrentActor(c), key, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"setting": setting})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"depot_tracker/internal/middleware"
	"depot_tracker/internal/services"
)

type DriverProfileController struct {
	Service *services.DriverProfileService
}

func (ctl *DriverProfileController) Create(c *gin.Context) {
	var input services.CreateDriverProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := ctl.Service.Create(middleware.CurrentActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"driver_profile": result.Profile, "outcome": result.Outcome})
}

func (ctl *DriverProfileController) List(c *gin.Context) {
	profiles, err := ctl.Service.FindAll(middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profiles})
}

func (ctl *DriverProfileController) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	profile, err := ctl.Service.FindOne(middleware.CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver_profile": profile})
}

func (ctl *DriverProfileController) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input services.UpdateDriverProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := ctl.Service.Update(middleware.CurrentActor(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver_profile": profile})
}

func (ctl *DriverProfileController) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctl.Service.Remove(middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "driver profile deleted"})
}

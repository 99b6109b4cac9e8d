package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"depot_tracker/internal/middleware"
	"depot_tracker/internal/services"
)

type DepotController struct {
	Service *services.DepotService
}

func (ctl *DepotController) Create(c *gin.Context) {
	var input services.CreateDepotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	depot, err := ctl.Service.Create(middleware.CurrentActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"depot": depot})
}

func (ctl *DepotController) List(c *gin.Context) {
	depots, err := ctl.Service.FindAll(middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": depots})
}

func (ctl *DepotController) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	depot, err := ctl.Service.FindOne(middleware.CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"depot": depot})
}

func (ctl *DepotController) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input services.UpdateDepotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	depot, err := ctl.Service.Update(middleware.CurrentActor(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"depot": depot})
}

func (ctl *DepotController) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctl.Service.Remove(middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "depot deleted"})
}

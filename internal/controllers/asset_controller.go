package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"depot_tracker/internal/middleware"
	"depot_tracker/internal/services"
)

type AssetController struct {
	Assets      *services.AssetService
	Maintenance *services.MaintenanceService
}

func (ctl *AssetController) Create(c *gin.Context) {
	var input services.CreateAssetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := ctl.Assets.Create(middleware.CurrentActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

func (ctl *AssetController) List(c *gin.Context) {
	assets, err := ctl.Assets.FindAll(middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": assets})
}

func (ctl *AssetController) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	asset, err := ctl.Assets.FindOne(middleware.CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

func (ctl *AssetController) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input services.UpdateAssetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := ctl.Assets.Update(middleware.CurrentActor(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

func (ctl *AssetController) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctl.Assets.Remove(middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "asset deleted"})
}

// --- Maintenance schedules ---

func (ctl *AssetController) CreateSchedule(c *gin.Context) {
	var input services.CreateMaintenanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := ctl.Maintenance.Create(middleware.CurrentActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"schedule": schedule})
}

func (ctl *AssetController) ListSchedules(c *gin.Context) {
	var assetID uint
	if raw := c.Query("asset_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset_id"})
			return
		}
		assetID = uint(parsed)
	}

	schedules, err := ctl.Maintenance.FindAll(middleware.CurrentActor(c), assetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": schedules})
}

func (ctl *AssetController) GetSchedule(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	schedule, err := ctl.Maintenance.FindOne(middleware.CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

func (ctl *AssetController) UpdateSchedule(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input services.UpdateMaintenanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := ctl.Maintenance.Update(middleware.CurrentActor(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

func (ctl *AssetController) DeleteSchedule(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctl.Maintenance.Remove(middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "maintenance schedule deleted"})
}

// ListMaintenanceTypes serves the maintenance type catalogue.
func (ctl *AssetController) ListMaintenanceTypes(c *gin.Context) {
	types, err := ctl.Maintenance.Types()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": types})
}

package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"depot_tracker/internal/middleware"
	"depot_tracker/internal/models"
	"depot_tracker/internal/services"
	"depot_tracker/internal/status"
)

type ComplianceController struct {
	Service  *services.ComplianceService
	Settings *services.SettingsService
}

// complianceView decorates a record with its computed status; the status is
// derived on read and never stored.
type complianceView struct {
	models.DriverCompliance
	Status status.Status `json:"status"`
}

func (ctl *ComplianceController) decorate(records []models.DriverCompliance) []complianceView {
	threshold, err := ctl.Settings.GetInt(models.SettingDueSoonThresholdDays)
	if err != nil {
		threshold = 7
	}
	now := time.Now()

	views := make([]complianceView, len(records))
	for i, record := range records {
		views[i] = complianceView{
			DriverCompliance: record,
			Status:           status.Classify(record.DueDate, now, threshold),
		}
	}
	return views
}

func (ctl *ComplianceController) Create(c *gin.Context) {
	var input services.CreateComplianceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	compliance, err := ctl.Service.Create(middleware.CurrentActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"compliance": ctl.decorate([]models.DriverCompliance{*compliance})[0]})
}

func (ctl *ComplianceController) List(c *gin.Context) {
	var driverProfileID uint
	if raw := c.Query("driver_profile_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid driver_profile_id"})
			return
		}
		driverProfileID = uint(parsed)
	}

	compliances, err := ctl.Service.FindAll(middleware.CurrentActor(c), driverProfileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ctl.decorate(compliances)})
}

func (ctl *ComplianceController) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	compliance, err := ctl.Service.FindOne(middleware.CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"compliance": ctl.decorate([]models.DriverCompliance{*compliance})[0]})
}

func (ctl *ComplianceController) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input services.UpdateComplianceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	compliance, err := ctl.Service.Update(middleware.CurrentActor(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"compliance": ctl.decorate([]models.DriverCompliance{*compliance})[0]})
}

func (ctl *ComplianceController) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctl.Service.Remove(middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "compliance record deleted"})
}

// ListTypes serves the compliance type catalogue.
func (ctl *ComplianceController) ListTypes(c *gin.Context) {
	types, err := ctl.Service.Types()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": types})
}

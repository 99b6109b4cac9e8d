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

type RouteController struct {
	Service  *services.RouteService
	Settings *services.SettingsService
}

// --- Route sections ---

func (ctl *RouteController) CreateSection(c *gin.Context) {
	var input services.CreateRouteSectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := ctl.Service.CreateSection(middleware.CurrentActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"route_section": section})
}

func (ctl *RouteController) ListSections(c *gin.Context) {
	sections, err := ctl.Service.FindAllSections(middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sections})
}

func (ctl *RouteController) UpdateSection(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input services.UpdateRouteSectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := ctl.Service.UpdateSection(middleware.CurrentActor(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route_section": section})
}

func (ctl *RouteController) DeleteSection(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctl.Service.RemoveSection(middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "route section deleted"})
}

// --- Driver route authorizations ---

// routeAuthView decorates an authorization with its computed validity
// status, reusing the compliance classifier against the expiry date.
type routeAuthView struct {
	models.DriverRouteAuth
	Status status.Status `json:"status"`
}

func (ctl *RouteController) decorate(records []models.DriverRouteAuth) []routeAuthView {
	threshold, err := ctl.Settings.GetInt(models.SettingDueSoonThresholdDays)
	if err != nil {
		threshold = 7
	}
	now := time.Now()

	views := make([]routeAuthView, len(records))
	for i, record := range records {
		views[i] = routeAuthView{
			DriverRouteAuth: record,
			Status:          status.Classify(record.ExpiryDate, now, threshold),
		}
	}
	return views
}

func (ctl *RouteController) CreateRouteAuth(c *gin.Context) {
	var input services.CreateRouteAuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	routeAuth, err := ctl.Service.CreateRouteAuth(middleware.CurrentActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"route_auth": ctl.decorate([]models.DriverRouteAuth{*routeAuth})[0]})
}

func (ctl *RouteController) ListRouteAuths(c *gin.Context) {
	var driverProfileID uint
	if raw := c.Query("driver_profile_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid driver_profile_id"})
			return
		}
		driverProfileID = uint(parsed)
	}

	auths, err := ctl.Service.FindAllRouteAuths(middleware.CurrentActor(c), driverProfileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ctl.decorate(auths)})
}

func (ctl *RouteController) GetRouteAuth(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	routeAuth, err := ctl.Service.FindOneRouteAuth(middleware.CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route_auth": ctl.decorate([]models.DriverRouteAuth{*routeAuth})[0]})
}

func (ctl *RouteController) UpdateRouteAuth(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input services.UpdateRouteAuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	routeAuth, err := ctl.Service.UpdateRouteAuth(middleware.CurrentActor(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route_auth": ctl.decorate([]models.DriverRouteAuth{*routeAuth})[0]})
}

func (ctl *RouteController) DeleteRouteAuth(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ctl.Service.RemoveRouteAuth(middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "route authorization deleted"})
}

package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"depot_tracker/internal/middleware"
	"depot_tracker/internal/services"
)

type AuditController struct {
	Service *services.AuditService
}

// List serves the audit trail with optional filters. Date filters take the
// same YYYY-MM-DD format the rest of the API uses.
func (ctl *AuditController) List(c *gin.Context) {
	filters := services.AuditFilters{
		EntityType: c.Query("entity_type"),
		Action:     c.Query("action"),
	}

	if raw := c.Query("entity_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity_id"})
			return
		}
		filters.EntityID = uint(parsed)
	}
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		filters.UserID = uint(parsed)
	}
	if raw := c.Query("depot_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid depot_id"})
			return
		}
		depotID := uint(parsed)
		filters.DepotID = &depotID
	}
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, want YYYY-MM-DD"})
			return
		}
		filters.StartDate = &parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, want YYYY-MM-DD"})
			return
		}
		// End of day so the filter is inclusive of the named date.
		end := parsed.AddDate(0, 0, 1).Add(-time.Second)
		filters.EndDate = &end
	}

	logs, err := ctl.Service.GetAuditLogs(middleware.CurrentActor(c), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs})
}

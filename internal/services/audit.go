package services

import (
	"encoding/json"
	"time"

	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"depot_tracker/internal/auth"
	"depot_tracker/internal/models"
)

// auditQueryCap bounds how many rows a single audit query may return.
const auditQueryCap = 1000

// AuditContext identifies who performed a mutation and from where.
type AuditContext struct {
	UserID    uint
	DepotID   *uint
	IPAddress string
	UserAgent string
}

// ContextFor builds an audit context from the acting caller.
func ContextFor(actor auth.Actor) AuditContext {
	return AuditContext{UserID: actor.UserID, DepotID: actor.DepotID}
}

// AuditService records before/after snapshots of mutating operations.
// Writing is best-effort: a failed audit write is logged and swallowed so it
// can never abort the primary operation.
type AuditService struct {
	DB *gorm.DB
}

func (s *AuditService) Log(ctx AuditContext, entityType string, entityID uint, action string, oldValue, newValue any) {
	record := models.AuditLog{
		UserID:     ctx.UserID,
		DepotID:    ctx.DepotID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		OldValue:   auditSnapshot(oldValue),
		NewValue:   auditSnapshot(newValue),
		IPAddress:  ctx.IPAddress,
		UserAgent:  ctx.UserAgent,
	}
	if err := s.DB.Create(&record).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"entity_type": entityType,
			"entity_id":   entityID,
		}).Error("Failed to write audit log")
	}
}

func auditSnapshot(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal audit snapshot")
		return ""
	}
	return string(b)
}

// AuditFilters narrows an audit query. Zero values mean "no filter".
type AuditFilters struct {
	EntityType string
	EntityID   uint
	DepotID    *uint
	UserID     uint
	Action     string
	StartDate  *time.Time
	EndDate    *time.Time
}

// GetAuditLogs returns audit rows visible to the caller, newest first,
// capped at 1000. Non-super-admin callers are confined to their depot; a
// manager lacking a depot gets an empty result, not an error.
func (s *AuditService) GetAuditLogs(actor auth.Actor, filters AuditFilters) ([]models.AuditLog, error) {
	query := s.DB.Model(&models.AuditLog{})

	if !actor.IsSuperAdmin() {
		if actor.DepotID == nil {
			return []models.AuditLog{}, nil
		}
		query = query.Where("depot_id = ?", *actor.DepotID)
	}

	if filters.EntityType != "" {
		query = query.Where("entity_type = ?", filters.EntityType)
	}
	if filters.EntityID != 0 {
		query = query.Where("entity_id = ?", filters.EntityID)
	}
	if filters.DepotID != nil {
		query = query.Where("depot_id = ?", *filters.DepotID)
	}
	if filters.UserID != 0 {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if filters.StartDate != nil {
		query = query.Where("created_at >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("created_at <= ?", *filters.EndDate)
	}

	var logs []models.AuditLog
	err := query.Preload("Depot").
		Order("created_at DESC").
		Limit(auditQueryCap).
		Find(&logs).Error
	return logs, err
}

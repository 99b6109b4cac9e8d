// internal/models/audit_log.go
package models

import "time"

// Audit actions.
const (
	AuditCreate = "CREATE"
	AuditUpdate = "UPDATE"
	AuditDelete = "DELETE"
)

// AuditLog is append-only: rows are created by the audit recorder and never
// mutated or soft-deleted, so it does not embed gorm.Model.
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index"`
	DepotID    *uint     `json:"depot_id" gorm:"index"`
	Depot      *Depot    `gorm:"foreignKey:DepotID" json:"depot,omitempty"`
	EntityType string    `json:"entity_type" gorm:"index"`
	EntityID   uint      `json:"entity_id" gorm:"index"`
	Action     string    `json:"action"`
	OldValue   string    `json:"old_value" gorm:"type:text"` // JSON snapshot
	NewValue   string    `json:"new_value" gorm:"type:text"` // JSON snapshot
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

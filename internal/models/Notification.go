// internal/models/notification.go
package models

import "gorm.io/gorm"

// Notification is an in-app message. Rows are created by the scheduler or a
// service and only ever mutated to flip IsRead.
type Notification struct {
	gorm.Model
	UserID            uint   `json:"user_id" gorm:"index"`
	Title             string `json:"title"`
	Message           string `json:"message"`
	IsRead            bool   `json:"is_read" gorm:"default:false"`
	RelatedEntityType string `json:"related_entity_type"`
	RelatedEntityID   uint   `json:"related_entity_id"`
}

// Command cleanup repairs duplicate compliance and route-authorization rows.
// Creation is deliberately permissive about concurrent inserts for the same
// pair; this job keeps the oldest active row of each pair and soft-deletes
// the rest.
package main

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"depot_tracker/internal/config"
	"depot_tracker/internal/logger"
	"depot_tracker/internal/models"
)

func main() {
	logger.Setup()
	config.InitDB()
	db := config.GetDB()

	removed, err := dedupeCompliances(db)
	if err != nil {
		log.Fatalf("compliance cleanup failed: %v", err)
	}
	log.Printf("compliance records soft-deleted: %d", removed)

	removed, err = dedupeRouteAuths(db)
	if err != nil {
		log.Fatalf("route authorization cleanup failed: %v", err)
	}
	log.Printf("route authorizations soft-deleted: %d", removed)
}

func dedupeCompliances(db *gorm.DB) (int, error) {
	var rows []models.DriverCompliance
	err := db.Where("is_active = ?", true).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool)
	var duplicateIDs []uint
	for _, row := range rows {
		key := fmt.Sprintf("%d/%d", row.DriverProfileID, row.ComplianceTypeID)
		if seen[key] {
			duplicateIDs = append(duplicateIDs, row.ID)
			continue
		}
		seen[key] = true
	}
	return softDelete(db, &models.DriverCompliance{}, duplicateIDs)
}

func dedupeRouteAuths(db *gorm.DB) (int, error) {
	var rows []models.DriverRouteAuth
	err := db.Where("is_active = ?", true).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool)
	var duplicateIDs []uint
	for _, row := range rows {
		key := fmt.Sprintf("%d/%d", row.DriverProfileID, row.RouteSectionID)
		if seen[key] {
			duplicateIDs = append(duplicateIDs, row.ID)
			continue
		}
		seen[key] = true
	}
	return softDelete(db, &models.DriverRouteAuth{}, duplicateIDs)
}

func softDelete(db *gorm.DB, model any, ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	err := db.Model(model).Where("id IN ?", ids).
		Updates(map[string]any{"is_active": false, "deleted_at": time.Now()}).Error
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

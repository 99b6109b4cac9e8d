package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"depot_tracker/internal/auth"
	"depot_tracker/internal/models"
	"depot_tracker/internal/scope"
)

// MaintenanceService mirrors the compliance service for depot equipment:
// schedules reach their depot through the owning asset, and due tracking may
// be calendar-based or running-hours-based.
type MaintenanceService struct {
	DB    *gorm.DB
	Audit *AuditService
}

type CreateMaintenanceInput struct {
	AssetID            uint    `json:"asset_id" binding:"required"`
	MaintenanceTypeID  uint    `json:"maintenance_type_id" binding:"required"`
	LastCompletedDate  *string `json:"last_completed_date"`
	NextDueDate        *string `json:"next_due_date"`
	LastCompletedHours *int    `json:"last_completed_hours"`
	NextDueHours       *int    `json:"next_due_hours"`
	Notes              string  `json:"notes"`
}

func (s *MaintenanceService) Create(actor auth.Actor, in CreateMaintenanceInput) (*models.MaintenanceSchedule, error) {
	asset, err := s.accessibleAsset(actor, in.AssetID)
	if err != nil {
		return nil, err
	}

	var maintenanceType models.MaintenanceType
	if err := s.DB.Where("id = ? AND is_active = ?", in.MaintenanceTypeID, true).First(&maintenanceType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: maintenance type", ErrNotFound)
		}
		return nil, err
	}

	schedule := models.MaintenanceSchedule{
		AssetID:            in.AssetID,
		MaintenanceTypeID:  in.MaintenanceTypeID,
		LastCompletedHours: in.LastCompletedHours,
		NextDueHours:       in.NextDueHours,
		Notes:              in.Notes,
		IsActive:           true,
	}
	if schedule.LastCompletedDate, err = parseOptionalDate(in.LastCompletedDate); err != nil {
		return nil, err
	}
	if schedule.NextDueDate, err = parseOptionalDate(in.NextDueDate); err != nil {
		return nil, err
	}

	if err := s.DB.Create(&schedule).Error; err != nil {
		return nil, err
	}
	schedule.Asset = asset
	schedule.MaintenanceType = &maintenanceType

	s.Audit.Log(ContextFor(actor), "MaintenanceSchedule", schedule.ID, models.AuditCreate, nil, schedule)
	return &schedule, nil
}

// FindAll lists schedules under the caller's scope; the depot filter rides
// the asset join.
func (s *MaintenanceService) FindAll(actor auth.Actor, assetID uint) ([]models.MaintenanceSchedule, error) {
	sc, err := scope.Resolve(actor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	if sc.DriverUserID != 0 {
		return []models.MaintenanceSchedule{}, nil
	}

	query := s.DB.Model(&models.MaintenanceSchedule{}).
		Where("maintenance_schedules.is_active = ?", true)
	if !sc.All {
		query = query.Joins("JOIN assets ON assets.id = maintenance_schedules.asset_id").
			Where("assets.depot_id = ? AND assets.is_active = ? AND assets.deleted_at IS NULL", sc.DepotID, true)
	}
	if assetID != 0 {
		query = query.Where("maintenance_schedules.asset_id = ?", assetID)
	}

	var schedules []models.MaintenanceSchedule
	err = query.Preload("Asset").Preload("Asset.Depot").Preload("MaintenanceType").
		Order("maintenance_schedules.next_due_date ASC").
		Find(&schedules).Error
	return schedules, err
}

func (s *MaintenanceService) FindOne(actor auth.Actor, id uint) (*models.MaintenanceSchedule, error) {
	var schedule models.MaintenanceSchedule
	err := s.DB.Preload("Asset").Preload("Asset.Depot").Preload("MaintenanceType").
		Where("id = ? AND is_active = ?", id, true).
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: maintenance schedule", ErrNotFound)
		}
		return nil, err
	}
	if schedule.Asset == nil {
		return nil, fmt.Errorf("%w: maintenance schedule", ErrNotFound)
	}

	sc, err := scope.Resolve(actor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	if !sc.AllowDepot(&schedule.Asset.DepotID) {
		return nil, fmt.Errorf("%w: access denied", ErrForbidden)
	}
	return &schedule, nil
}

type UpdateMaintenanceInput struct {
	LastCompletedDate  *string `json:"last_completed_date"`
	NextDueDate        *string `json:"next_due_date"`
	LastCompletedHours *int    `json:"last_completed_hours"`
	NextDueHours       *int    `json:"next_due_hours"`
	Notes              *string `json:"notes"`
}

func (s *MaintenanceService) Update(actor auth.Actor, id uint, in UpdateMaintenanceInput) (*models.MaintenanceSchedule, error) {
	schedule, err := s.FindOne(actor, id)
	if err != nil {
		return nil, err
	}
	before := *schedule

	if in.LastCompletedDate != nil {
		if schedule.LastCompletedDate, err = parseOptionalDate(in.LastCompletedDate); err != nil {
			return nil, err
		}
	}
	if in.NextDueDate != nil {
		if schedule.NextDueDate, err = parseOptionalDate(in.NextDueDate); err != nil {
			return nil, err
		}
	}
	if in.LastCompletedHours != nil {
		schedule.LastCompletedHours = in.LastCompletedHours
	}
	if in.NextDueHours != nil {
		schedule.NextDueHours = in.NextDueHours
	}
	if in.Notes != nil {
		schedule.Notes = *in.Notes
	}

	if err := s.DB.Save(schedule).Error; err != nil {
		return nil, err
	}
	s.Audit.Log(ContextFor(actor), "MaintenanceSchedule", schedule.ID, models.AuditUpdate, before, schedule)
	return schedule, nil
}

func (s *MaintenanceService) Remove(actor auth.Actor, id uint) error {
	schedule, err := s.FindOne(actor, id)
	if err != nil {
		return err
	}

	if err := s.DB.Model(schedule).Update("is_active", false).Error; err != nil {
		return err
	}
	if err := s.DB.Delete(schedule).Error; err != nil {
		return err
	}

	s.Audit.Log(ContextFor(actor), "MaintenanceSchedule", schedule.ID, models.AuditDelete, schedule, nil)
	return nil
}

// Types lists the active maintenance type catalogue.
func (s *MaintenanceService) Types() ([]models.MaintenanceType, error) {
	var types []models.MaintenanceType
	err := s.DB.Where("is_active = ?", true).Order("name ASC").Find(&types).Error
	return types, err
}

func (s *MaintenanceService) accessibleAsset(actor auth.Actor, assetID uint) (*models.Asset, error) {
	var asset models.Asset
	if err := s.DB.Where("id = ? AND is_active = ?", assetID, true).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: asset", ErrNotFound)
		}
		return nil, err
	}

	sc, err := scope.Resolve(actor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	if !sc.AllowDepot(&asset.DepotID) {
		return nil, fmt.Errorf("%w: access denied", ErrForbidden)
	}
	return &asset, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

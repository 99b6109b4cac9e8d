package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"depot_tracker/internal/auth"
	"depot_tracker/internal/models"
	"depot_tracker/internal/scope"
)

type AssetService struct {
	DB    *gorm.DB
	Audit *AuditService
}

type CreateAssetInput struct {
	Name        string `json:"name" binding:"required"`
	AssetNumber string `json:"asset_number" binding:"required"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	DepotID     uint   `json:"depot_id" binding:"required"`
}

func (s *AssetService) Create(actor auth.Actor, in CreateAssetInput) (*models.Asset, error) {
	if actor.Role == models.RoleDepotManager {
		if actor.DepotID == nil {
			return nil, fmt.Errorf("%w: manager missing depot", ErrForbidden)
		}
		if in.DepotID != *actor.DepotID {
			return nil, fmt.Errorf("%w: cannot create asset in another depot", ErrForbidden)
		}
	}

	var depot models.Depot
	if err := s.DB.Where("id = ? AND is_active = ?", in.DepotID, true).First(&depot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: depot", ErrNotFound)
		}
		return nil, err
	}

	asset := models.Asset{
		Name:        in.Name,
		AssetNumber: in.AssetNumber,
		Category:    in.Category,
		Location:    in.Location,
		DepotID:     in.DepotID,
		IsActive:    true,
	}
	if err := s.DB.Create(&asset).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: asset number already in use", ErrConflict)
		}
		return nil, err
	}

	s.Audit.Log(ContextFor(actor), "Asset", asset.ID, models.AuditCreate, nil, asset)
	return &asset, nil
}

func (s *AssetService) FindAll(actor auth.Actor) ([]models.Asset, error) {
	sc, err := scope.Resolve(actor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	if sc.DriverUserID != 0 {
		return []models.Asset{}, nil
	}

	var assets []models.Asset
	err = s.DB.Scopes(sc.DepotFilter("assets.depot_id")).
		Where("is_active = ?", true).
		Preload("Depot").
		Order("name ASC").
		Find(&assets).Error
	return assets, err
}

func (s *AssetService) FindOne(actor auth.Actor, id uint) (*models.Asset, error) {
	var asset models.Asset
	err := s.DB.Preload("Depot").
		Where("id = ? AND is_active = ?", id, true).
		First(&asset).Error
	if err != nil {
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

type UpdateAssetInput struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Location *string `json:"location"`
}

func (s *AssetService) Update(actor auth.Actor, id uint, in UpdateAssetInput) (*models.Asset, error) {
	asset, err := s.FindOne(actor, id)
	if err != nil {
		return nil, err
	}
	before := *asset

	if in.Name != nil {
		asset.Name = *in.Name
	}
	if in.Category != nil {
		asset.Category = *in.Category
	}
	if in.Location != nil {
		asset.Location = *in.Location
	}
	if err := s.DB.Save(asset).Error; err != nil {
		return nil, err
	}

	s.Audit.Log(ContextFor(actor), "Asset", asset.ID, models.AuditUpdate, before, asset)
	return asset, nil
}

func (s *AssetService) Remove(actor auth.Actor, id uint) error {
	asset, err := s.FindOne(actor, id)
	if err != nil {
		return err
	}

	if err := s.DB.Model(asset).Update("is_active", false).Error; err != nil {
		return err
	}
	if err := s.DB.Delete(asset).Error; err != nil {
		return err
	}

	s.Audit.Log(ContextFor(actor), "Asset", asset.ID, models.AuditDelete, asset, nil)
	return nil
}

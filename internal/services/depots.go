package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"depot_tracker/internal/auth"
	"depot_tracker/internal/models"
	"depot_tracker/internal/scope"
)

type DepotService struct {
	DB    *gorm.DB
	Audit *AuditService
}

type CreateDepotInput struct {
	Name    string `json:"name" binding:"required"`
	Code    string `json:"code" binding:"required"`
	Address string `json:"address"`
}

func (s *DepotService) Create(actor auth.Actor, in CreateDepotInput) (*models.Depot, error) {
	depot := models.Depot{
		Name:     in.Name,
		Code:     in.Code,
		Address:  in.Address,
		IsActive: true,
	}
	if err := s.DB.Create(&depot).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: depot code already in use", ErrConflict)
		}
		return nil, err
	}
	s.Audit.Log(ContextFor(actor), "Depot", depot.ID, models.AuditCreate, nil, depot)
	return &depot, nil
}

// FindAll lists depots visible to the caller: all for super admins, own
// depot for managers, nothing for drivers.
func (s *DepotService) FindAll(actor auth.Actor) ([]models.Depot, error) {
	sc, err := scope.Resolve(actor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	if sc.DriverUserID != 0 {
		return []models.Depot{}, nil
	}

	var depots []models.Depot
	err = s.DB.Scopes(sc.DepotFilter("depots.id")).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&depots).Error
	return depots, err
}

func (s *DepotService) FindOne(actor auth.Actor, id uint) (*models.Depot, error) {
	sc, err := scope.Resolve(actor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	if !sc.AllowDepot(&id) {
		return nil, fmt.Errorf("%w: access denied", ErrForbidden)
	}

	var depot models.Depot
	if err := s.DB.Where("id = ? AND is_active = ?", id, true).First(&depot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: depot", ErrNotFound)
		}
		return nil, err
	}
	return &depot, nil
}

type UpdateDepotInput struct {
	Name    *string `json:"name"`
	Code    *string `json:"code"`
	Address *string `json:"address"`
}

func (s *DepotService) Update(actor auth.Actor, id uint, in UpdateDepotInput) (*models.Depot, error) {
	depot, err := s.FindOne(actor, id)
	if err != nil {
		return nil, err
	}
	before := *depot

	if in.Name != nil {
		depot.Name = *in.Name
	}
	if in.Code != nil {
		depot.Code = *in.Code
	}
	if in.Address != nil {
		depot.Address = *in.Address
	}
	if err := s.DB.Save(depot).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: depot code already in use", ErrConflict)
		}
		return nil, err
	}

	s.Audit.Log(ContextFor(actor), "Depot", depot.ID, models.AuditUpdate, before, depot)
	return depot, nil
}

// Remove soft-deletes the depot. Deleting a depot that is already gone
// surfaces as NotFound via the visibility check.
func (s *DepotService) Remove(actor auth.Actor, id uint) error {
	depot, err := s.FindOne(actor, id)
	if err != nil {
		return err
	}

	if err := s.DB.Model(depot).Update("is_active", false).Error; err != nil {
		return err
	}
	if err := s.DB.Delete(depot).Error; err != nil {
		return err
	}

	s.Audit.Log(ContextFor(actor), "Depot", depot.ID, models.AuditDelete, depot, nil)
	return nil
}

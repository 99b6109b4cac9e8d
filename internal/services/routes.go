package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"depot_tracker/internal/auth"
	"depot_tracker/internal/models"
	"depot_tracker/internal/scope"
)

type RouteService struct {
	DB    *gorm.DB
	Audit *AuditService
}

// --- Route sections ---

type CreateRouteSectionInput struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DepotID     *uint  `json:"depot_id"`
}

// CreateSection adds a depot-custom section. A manager's section is always
// pinned to their own depot regardless of the payload.
func (s *RouteService) CreateSection(actor auth.Actor, in CreateRouteSectionInput) (*models.RouteSection, error) {
	if actor.Role == models.RoleDepotManager {
		if actor.DepotID == nil {
			return nil, fmt.Errorf("%w: manager missing depot", ErrForbidden)
		}
		in.DepotID = actor.DepotID
	}

	section := models.RouteSection{
		Code:         in.Code,
		Name:         in.Name,
		Description:  in.Description,
		IsPredefined: false,
		DepotID:      in.DepotID,
		IsActive:     true,
	}
	if err := s.DB.Create(&section).Error; err != nil {
		return nil, err
	}
	s.Audit.Log(ContextFor(actor), "RouteSection", section.ID, models.AuditCreate, nil, section)
	return &section, nil
}

// FindAllSections lists sections visible to the caller. Managers get the
// union of globally predefined sections and their own depot-custom ones.
func (s *RouteService) FindAllSections(actor auth.Actor) ([]models.RouteSection, error) {
	sc, err := scope.Resolve(actor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	var sections []models.RouteSection
	err = sc.RouteSectionFilter(s.DB.Model(&models.RouteSection{})).
		Where("route_sections.is_active = ?", true).
		Order("code ASC").
		Find(&sections).Error
	return sections, err
}

type UpdateRouteSectionInput struct {
	Code        *string `json:"code"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (s *RouteService) UpdateSection(actor auth.Actor, id uint, in UpdateRouteSectionInput) (*models.RouteSection, error) {
	section, err := s.findSectionForWrite(actor, id, "edited")
	if err != nil {
		return nil, err
	}
	before := *section

	if in.Code != nil {
		section.Code = *in.Code
	}
	if in.Name != nil {
		section.Name = *in.Name
	}
	if in.Description != nil {
		section.Description = *in.Description
	}
	if err := s.DB.Save(section).Error; err != nil {
		return nil, err
	}
	s.Audit.Log(ContextFor(actor), "RouteSection", section.ID, models.AuditUpdate, before, section)
	return section, nil
}

func (s *RouteService) RemoveSection(actor auth.Actor, id uint) error {
	section, err := s.findSectionForWrite(actor, id, "deleted")
	if err != nil {
		return err
	}

	if err := s.DB.Model(section).Update("is_active", false).Error; err != nil {
		return err
	}
	if err := s.DB.Delete(section).Error; err != nil {
		return err
	}
	s.Audit.Log(ContextFor(actor), "RouteSection", section.ID, models.AuditDelete, section, nil)
	return nil
}

// findSectionForWrite enforces the two write rules: predefined sections are
// immutable, and managers may only touch sections of their own depot.
func (s *RouteService) findSectionForWrite(actor auth.Actor, id uint, verb string) (*models.RouteSection, error) {
	var section models.RouteSection
	if err := s.DB.Where("id = ? AND is_active = ?", id, true).First(&section).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: route section", ErrNotFound)
		}
		return nil, err
	}
	if section.IsPredefined {
		return nil, fmt.Errorf("%w: predefined route sections cannot be %s", ErrForbidden, verb)
	}
	if actor.Role == models.RoleDepotManager {
		sc, err := scope.Resolve(actor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
		}
		if !sc.AllowDepot(section.DepotID) {
			return nil, fmt.Errorf("%w: access denied", ErrForbidden)
		}
	}
	return &section, nil
}

// --- Driver route authorizations ---

type CreateRouteAuthInput struct {
	DriverProfileID uint   `json:"driver_profile_id" binding:"required"`
	RouteSectionID  uint   `json:"route_section_id" binding:"required"`
	AuthorizedDate  string `json:"authorized_date" binding:"required"`
	ExpiryDate      string `json:"expiry_date" binding:"required"`
}

func (s *RouteService) CreateRouteAuth(actor auth.Actor, in CreateRouteAuthInput) (*models.DriverRouteAuth, error) {
	authorized, err := parseDate(in.AuthorizedDate)
	if err != nil {
		return nil, err
	}
	expiry, err := parseDate(in.ExpiryDate)
	if err != nil {
		return nil, err
	}
	if !expiry.After(authorized) {
		return nil, fmt.Errorf("%w: expiry date must be after authorized date", ErrValidation)
	}

	var profile models.DriverProfile
	if err := s.DB.Where("id = ? AND is_active = ?", in.DriverProfileID, true).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: driver profile", ErrNotFound)
		}
		return nil, err
	}
	if actor.Role == models.RoleDepotManager {
		sc, err := scope.Resolve(actor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
		}
		if !sc.AllowDepot(&profile.DepotID) {
			return nil, fmt.Errorf("%w: access denied", ErrForbidden)
		}
	}

	var section models.RouteSection
	if err := s.DB.Where("id = ? AND is_active = ?", in.RouteSectionID, true).First(&section).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: route section", ErrNotFound)
		}
		return nil, err
	}

	// Same duplication gap as compliance: concurrent creates for one
	// (driver, section) pair both land.
	routeAuth := models.DriverRouteAuth{
		DriverProfileID: in.DriverProfileID,
		RouteSectionID:  in.RouteSectionID,
		AuthorizedDate:  authorized,
		ExpiryDate:      expiry,
		IsActive:        true,
	}
	if err := s.DB.Create(&routeAuth).Error; err != nil {
		return nil, err
	}
	routeAuth.RouteSection = &section
	routeAuth.DriverProfile = &profile

	s.Audit.Log(ContextFor(actor), "DriverRouteAuth", routeAuth.ID, models.AuditCreate, nil, routeAuth)
	return &routeAuth, nil
}

func (s *RouteService) FindAllRouteAuths(actor auth.Actor, driverProfileID uint) ([]models.DriverRouteAuth, error) {
	sc, err := scope.Resolve(actor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	query := s.DB.Model(&models.DriverRouteAuth{}).
		Scopes(sc.ThroughDriverProfile("driver_route_auths")).
		Where("driver_route_auths.is_active = ?", true)
	if driverProfileID != 0 {
		query = query.Where("driver_route_auths.driver_profile_id = ?", driverProfileID)
	}

	var auths []models.DriverRouteAuth
	err = query.Preload("RouteSection").
		Preload("DriverProfile").Preload("DriverProfile.Depot").
		Order("driver_route_auths.expiry_date ASC").
		Find(&auths).Error
	return auths, err
}

func (s *RouteService) FindOneRouteAuth(actor auth.Actor, id uint) (*models.DriverRouteAuth, error) {
	var routeAuth models.DriverRouteAuth
	err := s.DB.Preload("RouteSection").
		Preload("DriverProfile").Preload("DriverProfile.Depot").
		Where("id = ? AND is_active = ?", id, true).
		First(&routeAuth).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: route authorization", ErrNotFound)
		}
		return nil, err
	}
	if routeAuth.DriverProfile == nil {
		return nil, fmt.Errorf("%w: route authorization", ErrNotFound)
	}

	sc, err := scope.Resolve(actor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	switch {
	case sc.All:
	case sc.DriverUserID != 0:
		if routeAuth.DriverProfile.UserID != sc.DriverUserID {
			return nil, fmt.Errorf("%w: access denied", ErrForbidden)
		}
	default:
		if !sc.AllowDepot(&routeAuth.DriverProfile.DepotID) {
			return nil, fmt.Errorf("%w: access denied", ErrForbidden)
		}
	}
	return &routeAuth, nil
}

type UpdateRouteAuthInput struct {
	AuthorizedDate *string `json:"authorized_date"`
	ExpiryDate     *string `json:"expiry_date"`
}

func (s *RouteService) UpdateRouteAuth(actor auth.Actor, id uint, in UpdateRouteAuthInput) (*models.DriverRouteAuth, error) {
	routeAuth, err := s.FindOneRouteAuth(actor, id)
	if err != nil {
		return nil, err
	}
	before := *routeAuth

	if in.AuthorizedDate != nil {
		authorized, err := parseDate(*in.AuthorizedDate)
		if err != nil {
			return nil, err
		}
		routeAuth.AuthorizedDate = authorized
	}
	if in.ExpiryDate != nil {
		expiry, err := parseDate(*in.ExpiryDate)
		if err != nil {
			return nil, err
		}
		routeAuth.ExpiryDate = expiry
	}
	if !routeAuth.ExpiryDate.After(routeAuth.AuthorizedDate) {
		return nil, fmt.Errorf("%w: expiry date must be after authorized date", ErrValidation)
	}

	if err := s.DB.Save(routeAuth).Error; err != nil {
		return nil, err
	}
	s.Audit.Log(ContextFor(actor), "DriverRouteAuth", routeAuth.ID, models.AuditUpdate, before, routeAuth)
	return routeAuth, nil
}

func (s *RouteService) RemoveRouteAuth(actor auth.Actor, id uint) error {
	routeAuth, err := s.FindOneRouteAuth(actor, id)
	if err != nil {
		return err
	}

	if err := s.DB.Model(routeAuth).Update("is_active", false).Error; err != nil {
		return err
	}
	if err := s.DB.Delete(routeAuth).Error; err != nil {
		return err
	}
	s.Audit.Log(ContextFor(actor), "DriverRouteAuth", routeAuth.ID, models.AuditDelete, routeAuth, nil)
	return nil
}

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

type ComplianceService struct {
	DB    *gorm.DB
	Audit *AuditService
}

type CreateComplianceInput struct {
	DriverProfileID  uint   `json:"driver_profile_id" binding:"required"`
	ComplianceTypeID uint   `json:"compliance_type_id" binding:"required"`
	DoneDate         string `json:"done_date" binding:"required"`
	// DueDate is computed by the caller as doneDate + frequencyMonths and
	// stored verbatim; the server never recomputes it.
	DueDate         string `json:"due_date" binding:"required"`
	FrequencyMonths int    `json:"frequency_months" binding:"required"`
	Notes           string `json:"notes"`
}

func (s *ComplianceService) Create(actor auth.Actor, in CreateComplianceInput) (*models.DriverCompliance, error) {
	done, err := parseDate(in.DoneDate)
	if err != nil {
		return nil, err
	}
	due, err := parseDate(in.DueDate)
	if err != nil {
		return nil, err
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

	var complianceType models.ComplianceType
	if err := s.DB.Where("id = ? AND is_active = ?", in.ComplianceTypeID, true).First(&complianceType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: compliance type", ErrNotFound)
		}
		return nil, err
	}

	// No uniqueness gate on (profile, type): two concurrent creates both
	// succeed and the cleanup script repairs the duplicates later.
	compliance := models.DriverCompliance{
		DriverProfileID:  in.DriverProfileID,
		ComplianceTypeID: in.ComplianceTypeID,
		DoneDate:         done,
		DueDate:          due,
		FrequencyMonths:  in.FrequencyMonths,
		Notes:            in.Notes,
		IsActive:         true,
	}
	if err := s.DB.Create(&compliance).Error; err != nil {
		return nil, err
	}
	compliance.ComplianceType = &complianceType
	compliance.DriverProfile = &profile

	s.Audit.Log(ContextFor(actor), "DriverCompliance", compliance.ID, models.AuditCreate, nil, compliance)
	return &compliance, nil
}

// FindAll lists compliance records under the caller's scope. The depot
// filter rides the driver-profile join because compliance rows carry no
// depot column of their own.
func (s *ComplianceService) FindAll(actor auth.Actor, driverProfileID uint) ([]models.DriverCompliance, error) {
	sc, err := scope.Resolve(actor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	query := s.DB.Model(&models.DriverCompliance{}).
		Scopes(sc.ThroughDriverProfile("driver_compliances")).
		Where("driver_compliances.is_active = ?", true)
	if driverProfileID != 0 {
		query = query.Where("driver_compliances.driver_profile_id = ?", driverProfileID)
	}

	var compliances []models.DriverCompliance
	err = query.Preload("ComplianceType").
		Preload("DriverProfile").Preload("DriverProfile.Depot").
		Order("driver_compliances.due_date ASC").
		Find(&compliances).Error
	return compliances, err
}

func (s *ComplianceService) FindOne(actor auth.Actor, id uint) (*models.DriverCompliance, error) {
	var compliance models.DriverCompliance
	err := s.DB.Preload("ComplianceType").
		Preload("DriverProfile").Preload("DriverProfile.Depot").
		Where("id = ? AND is_active = ?", id, true).
		First(&compliance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: compliance", ErrNotFound)
		}
		return nil, err
	}
	if compliance.DriverProfile == nil {
		return nil, fmt.Errorf("%w: compliance", ErrNotFound)
	}

	sc, err := scope.Resolve(actor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	switch {
	case sc.All:
	case sc.DriverUserID != 0:
		if compliance.DriverProfile.UserID != sc.DriverUserID {
			return nil, fmt.Errorf("%w: access denied", ErrForbidden)
		}
	default:
		if !sc.AllowDepot(&compliance.DriverProfile.DepotID) {
			return nil, fmt.Errorf("%w: access denied", ErrForbidden)
		}
	}
	return &compliance, nil
}

type UpdateComplianceInput struct {
	DoneDate        *string `json:"done_date"`
	DueDate         *string `json:"due_date"`
	FrequencyMonths *int    `json:"frequency_months"`
	Notes           *string `json:"notes"`
	// Required when a super admin changes any of the three date/frequency
	// fields; recorded on the audit trail, never on the row.
	OverrideReason        string `json:"override_reason"`
	OverrideJustification string `json:"override_justification"`
}

// complianceAuditOld carries the pre-update snapshot augmented with the
// override rationale, so the audit trail rather than the live row holds it.
type complianceAuditOld struct {
	models.DriverCompliance
	OverrideReason        string `json:"override_reason,omitempty"`
	OverrideJustification string `json:"override_justification,omitempty"`
}

func (s *ComplianceService) Update(actor auth.Actor, id uint, in UpdateComplianceInput) (*models.DriverCompliance, error) {
	compliance, err := s.FindOne(actor, id)
	if err != nil {
		return nil, err
	}
	before := *compliance

	var doneDate, dueDate *time.Time
	if in.DoneDate != nil {
		t, err := parseDate(*in.DoneDate)
		if err != nil {
			return nil, err
		}
		doneDate = &t
	}
	if in.DueDate != nil {
		t, err := parseDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		dueDate = &t
	}

	isOverride := (doneDate != nil && !doneDate.Equal(compliance.DoneDate)) ||
		(dueDate != nil && !dueDate.Equal(compliance.DueDate)) ||
		(in.FrequencyMonths != nil && *in.FrequencyMonths != compliance.FrequencyMonths)

	if isOverride {
		if !actor.IsSuperAdmin() {
			return nil, fmt.Errorf("%w: only a super admin may override compliance dates", ErrForbidden)
		}
		if in.OverrideReason == "" || in.OverrideJustification == "" {
			return nil, fmt.Errorf("%w: override requires reason and justification", ErrValidation)
		}
	}

	if doneDate != nil {
		compliance.DoneDate = *doneDate
	}
	if dueDate != nil {
		compliance.DueDate = *dueDate
	}
	if in.FrequencyMonths != nil {
		compliance.FrequencyMonths = *in.FrequencyMonths
	}
	if in.Notes != nil {
		compliance.Notes = *in.Notes
	}

	if err := s.DB.Save(compliance).Error; err != nil {
		return nil, err
	}

	s.Audit.Log(ContextFor(actor), "DriverCompliance", compliance.ID, models.AuditUpdate,
		complianceAuditOld{
			DriverCompliance:      before,
			OverrideReason:        in.OverrideReason,
			OverrideJustification: in.OverrideJustification,
		},
		compliance)
	return compliance, nil
}

func (s *ComplianceService) Remove(actor auth.Actor, id uint) error {
	compliance, err := s.FindOne(actor, id)
	if err != nil {
		return err
	}

	if err := s.DB.Model(compliance).Update("is_active", false).Error; err != nil {
		return err
	}
	if err := s.DB.Delete(compliance).Error; err != nil {
		return err
	}

	s.Audit.Log(ContextFor(actor), "DriverCompliance", compliance.ID, models.AuditDelete, compliance, nil)
	return nil
}

// Types lists the active compliance type catalogue.
func (s *ComplianceService) Types() ([]models.ComplianceType, error) {
	var types []models.ComplianceType
	err := s.DB.Where("is_active = ?", true).Order("name ASC").Find(&types).Error
	return types, err
}

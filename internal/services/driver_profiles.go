package services

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"depot_tracker/internal/auth"
	"depot_tracker/internal/models"
	"depot_tracker/internal/scope"
)

type DriverProfileService struct {
	DB    *gorm.DB
	Audit *AuditService
}

type CreateDriverProfileInput struct {
	Email             string  `json:"email" binding:"required,email"`
	Password          string  `json:"password" binding:"required"`
	PFNumber          string  `json:"pf_number" binding:"required"`
	DriverName        string  `json:"driver_name" binding:"required"`
	Designation       string  `json:"designation"`
	BasicPay          float64 `json:"basic_pay"`
	DateOfAppointment string  `json:"date_of_appointment" binding:"required"`
	DateOfEntry       string  `json:"date_of_entry" binding:"required"`
	DepotID           uint    `json:"depot_id" binding:"required"`
}

type CreateDriverProfileResult struct {
	Profile *models.DriverProfile
	Outcome CreateOutcome
}

// Create adds a driver user and profile together. A previously soft-deleted
// profile (matched by pf number) or user (matched by email) is reactivated
// instead of colliding with its unique key; the outcome tag names which
// branch was taken.
func (s *DriverProfileService) Create(actor auth.Actor, in CreateDriverProfileInput) (*CreateDriverProfileResult, error) {
	appointed, err := parseDate(in.DateOfAppointment)
	if err != nil {
		return nil, err
	}
	entered, err := parseDate(in.DateOfEntry)
	if err != nil {
		return nil, err
	}

	if actor.Role == models.RoleDepotManager {
		if actor.DepotID == nil {
			return nil, fmt.Errorf("%w: manager missing depot", ErrForbidden)
		}
		if in.DepotID != *actor.DepotID {
			return nil, fmt.Errorf("%w: cannot create driver in another depot", ErrForbidden)
		}
	}

	var depot models.Depot
	if err := s.DB.Where("id = ? AND is_active = ?", in.DepotID, true).First(&depot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: depot", ErrNotFound)
		}
		return nil, err
	}

	var activeProfile models.DriverProfile
	err = s.DB.Where("pf_number = ? AND is_active = ?", in.PFNumber, true).First(&activeProfile).Error
	if err == nil {
		return nil, fmt.Errorf("%w: driver profile with this PF number already exists", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var activeUser models.User
	err = s.DB.Where("email = ? AND is_active = ?", in.Email, true).First(&activeUser).Error
	if err == nil {
		return nil, fmt.Errorf("%w: user with this email already exists", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Reactivation probes include soft-deleted rows.
	var deletedProfile models.DriverProfile
	profileErr := s.DB.Unscoped().Where("pf_number = ?", in.PFNumber).First(&deletedProfile).Error
	var deletedUser models.User
	userErr := s.DB.Unscoped().Where("email = ?", in.Email).First(&deletedUser).Error

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var result *CreateDriverProfileResult
	switch {
	case profileErr == nil:
		result, err = s.reactivateProfile(tx, &deletedProfile, string(hash), in, appointed, entered)
	case userErr == nil:
		result, err = s.reactivateUserWithNewProfile(tx, &deletedUser, string(hash), in, appointed, entered)
	default:
		if !errors.Is(profileErr, gorm.ErrRecordNotFound) {
			err = profileErr
			break
		}
		if !errors.Is(userErr, gorm.ErrRecordNotFound) {
			err = userErr
			break
		}
		result, err = s.createFresh(tx, string(hash), in, appointed, entered)
	}
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.Audit.Log(ContextFor(actor), "DriverProfile", result.Profile.ID, models.AuditCreate, nil, result.Profile)
	return result, nil
}

func (s *DriverProfileService) createFresh(tx *gorm.DB, hash string, in CreateDriverProfileInput, appointed, entered time.Time) (*CreateDriverProfileResult, error) {
	depotID := in.DepotID
	user := models.User{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         models.RoleDriver,
		DepotID:      &depotID,
		IsActive:     true,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}

	profile := models.DriverProfile{
		UserID:            user.ID,
		PFNumber:          in.PFNumber,
		DriverName:        in.DriverName,
		Designation:       in.Designation,
		BasicPay:          in.BasicPay,
		DateOfAppointment: appointed,
		DateOfEntry:       entered,
		DepotID:           in.DepotID,
		IsActive:          true,
	}
	if err := tx.Create(&profile).Error; err != nil {
		return nil, err
	}
	profile.User = &user
	return &CreateDriverProfileResult{Profile: &profile, Outcome: OutcomeCreated}, nil
}

func (s *DriverProfileService) reactivateProfile(tx *gorm.DB, profile *models.DriverProfile, hash string, in CreateDriverProfileInput, appointed, entered time.Time) (*CreateDriverProfileResult, error) {
	depotID := in.DepotID

	var user models.User
	if err := tx.Unscoped().Where("id = ?", profile.UserID).First(&user).Error; err != nil {
		return nil, err
	}
	user.Email = in.Email
	user.PasswordHash = hash
	user.Role = models.RoleDriver
	user.DepotID = &depotID
	user.IsActive = true
	user.DeletedAt = gorm.DeletedAt{}
	if err := tx.Unscoped().Save(&user).Error; err != nil {
		return nil, err
	}

	profile.DriverName = in.DriverName
	profile.Designation = in.Designation
	profile.BasicPay = in.BasicPay
	profile.DateOfAppointment = appointed
	profile.DateOfEntry = entered
	profile.DepotID = in.DepotID
	profile.IsActive = true
	profile.DeletedAt = gorm.DeletedAt{}
	if err := tx.Unscoped().Save(profile).Error; err != nil {
		return nil, err
	}
	profile.User = &user
	return &CreateDriverProfileResult{Profile: profile, Outcome: OutcomeReactivatedProfile}, nil
}

func (s *DriverProfileService) reactivateUserWithNewProfile(tx *gorm.DB, user *models.User, hash string, in CreateDriverProfileInput, appointed, entered time.Time) (*CreateDriverProfileResult, error) {
	depotID := in.DepotID
	user.PasswordHash = hash
	user.Role = models.RoleDriver
	user.DepotID = &depotID
	user.IsActive = true
	user.DeletedAt = gorm.DeletedAt{}
	if err := tx.Unscoped().Save(user).Error; err != nil {
		return nil, err
	}

	profile := models.DriverProfile{
		UserID:            user.ID,
		PFNumber:          in.PFNumber,
		DriverName:        in.DriverName,
		Designation:       in.Designation,
		BasicPay:          in.BasicPay,
		DateOfAppointment: appointed,
		DateOfEntry:       entered,
		DepotID:           in.DepotID,
		IsActive:          true,
	}
	if err := tx.Create(&profile).Error; err != nil {
		return nil, err
	}
	profile.User = user
	return &CreateDriverProfileResult{Profile: &profile, Outcome: OutcomeReactivatedUser}, nil
}

// FindAll lists profiles under the caller's scope. A driver with no profile
// sees an empty result, not an error.
func (s *DriverProfileService) FindAll(actor auth.Actor) ([]models.DriverProfile, error) {
	sc, err := scope.Resolve(actor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	var profiles []models.DriverProfile
	err = sc.DriverProfileFilter(s.DB.Model(&models.DriverProfile{})).
		Where("driver_profiles.is_active = ?", true).
		Preload("User").Preload("Depot").
		Order("driver_name ASC").
		Find(&profiles).Error
	return profiles, err
}

func (s *DriverProfileService) FindOne(actor auth.Actor, id uint) (*models.DriverProfile, error) {
	var profile models.DriverProfile
	err := s.DB.Preload("User").Preload("Depot").
		Where("id = ? AND is_active = ?", id, true).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: driver profile", ErrNotFound)
		}
		return nil, err
	}

	sc, err := scope.Resolve(actor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	switch {
	case sc.All:
	case sc.DriverUserID != 0:
		if profile.UserID != sc.DriverUserID {
			return nil, fmt.Errorf("%w: access denied", ErrForbidden)
		}
	default:
		if !sc.AllowDepot(&profile.DepotID) {
			return nil, fmt.Errorf("%w: access denied", ErrForbidden)
		}
	}
	return &profile, nil
}

type UpdateDriverProfileInput struct {
	DriverName        *string  `json:"driver_name"`
	Designation       *string  `json:"designation"`
	BasicPay          *float64 `json:"basic_pay"`
	DateOfAppointment *string  `json:"date_of_appointment"`
	DateOfEntry       *string  `json:"date_of_entry"`
}

func (s *DriverProfileService) Update(actor auth.Actor, id uint, in UpdateDriverProfileInput) (*models.DriverProfile, error) {
	profile, err := s.FindOne(actor, id)
	if err != nil {
		return nil, err
	}
	before := *profile

	if in.DriverName != nil {
		profile.DriverName = *in.DriverName
	}
	if in.Designation != nil {
		profile.Designation = *in.Designation
	}
	if in.BasicPay != nil {
		profile.BasicPay = *in.BasicPay
	}
	if in.DateOfAppointment != nil {
		appointed, err := parseDate(*in.DateOfAppointment)
		if err != nil {
			return nil, err
		}
		profile.DateOfAppointment = appointed
	}
	if in.DateOfEntry != nil {
		entered, err := parseDate(*in.DateOfEntry)
		if err != nil {
			return nil, err
		}
		profile.DateOfEntry = entered
	}

	if err := s.DB.Save(profile).Error; err != nil {
		return nil, err
	}
	s.Audit.Log(ContextFor(actor), "DriverProfile", profile.ID, models.AuditUpdate, before, profile)
	return profile, nil
}

// Remove soft-deletes the profile and its login together; reactivation
// later restores both.
func (s *DriverProfileService) Remove(actor auth.Actor, id uint) error {
	profile, err := s.FindOne(actor, id)
	if err != nil {
		return err
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.Model(profile).Update("is_active", false).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(profile).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Model(&models.User{}).Where("id = ?", profile.UserID).Update("is_active", false).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.User{}, profile.UserID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.Audit.Log(ContextFor(actor), "DriverProfile", profile.ID, models.AuditDelete, profile, nil)
	return nil
}

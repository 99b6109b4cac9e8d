package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"depot_tracker/internal/auth"
	"depot_tracker/internal/models"
	"depot_tracker/internal/scope"
)

// CreateOutcome tags which branch a create call took. Reactivation of a
// previously soft-deleted row avoids tripping the unique key on email or
// pf number.
type CreateOutcome string

const (
	OutcomeCreated            CreateOutcome = "created"
	OutcomeReactivatedUser    CreateOutcome = "reactivated_user"
	OutcomeReactivatedProfile CreateOutcome = "reactivated_profile"
)

type UserService struct {
	DB    *gorm.DB
	Audit *AuditService
}

type CreateUserInput struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	Role     models.Role `json:"role" binding:"required"`
	DepotID  *uint       `json:"depot_id"`
}

type CreateUserResult struct {
	User    *models.User
	Outcome CreateOutcome
}

// Create adds a user, reactivating a soft-deleted account with the same
// email instead of colliding with its unique key.
func (s *UserService) Create(actor auth.Actor, in CreateUserInput) (*CreateUserResult, error) {
	if !models.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: invalid role", ErrValidation)
	}
	if in.Role != models.RoleSuperAdmin && in.DepotID == nil {
		return nil, fmt.Errorf("%w: %s requires a depot", ErrValidation, in.Role)
	}
	if actor.Role == models.RoleDepotManager {
		if actor.DepotID == nil {
			return nil, fmt.Errorf("%w: manager missing depot", ErrForbidden)
		}
		if in.Role != models.RoleDriver || in.DepotID == nil || *in.DepotID != *actor.DepotID {
			return nil, fmt.Errorf("%w: cannot create user outside own depot", ErrForbidden)
		}
	}

	var active models.User
	err := s.DB.Where("email = ? AND is_active = ?", in.Email, true).First(&active).Error
	if err == nil {
		return nil, fmt.Errorf("%w: user with this email already exists", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(in.Password)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Reactivation probe includes soft-deleted rows.
	var deleted models.User
	err = s.DB.Unscoped().Where("email = ?", in.Email).First(&deleted).Error
	switch {
	case err == nil:
		deleted.PasswordHash = string(hash)
		deleted.Role = in.Role
		deleted.DepotID = in.DepotID
		deleted.IsActive = true
		deleted.DeletedAt = gorm.DeletedAt{}
		if err := s.DB.Unscoped().Save(&deleted).Error; err != nil {
			return nil, err
		}
		s.Audit.Log(ContextFor(actor), "User", deleted.ID, models.AuditCreate, nil, deleted)
		return &CreateUserResult{User: &deleted, Outcome: OutcomeReactivatedUser}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user := models.User{
			Email:        in.Email,
			PasswordHash: string(hash),
			Role:         in.Role,
			DepotID:      in.DepotID,
			IsActive:     true,
		}
		if err := s.DB.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("%w: user with this email already exists", ErrConflict)
			}
			return nil, err
		}
		s.Audit.Log(ContextFor(actor), "User", user.ID, models.AuditCreate, nil, user)
		return &CreateUserResult{User: &user, Outcome: OutcomeCreated}, nil
	default:
		return nil, err
	}
}

func (s *UserService) FindAll(actor auth.Actor, role models.Role) ([]models.User, error) {
	sc, err := scope.Resolve(actor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	if sc.DriverUserID != 0 {
		return []models.User{}, nil
	}

	query := s.DB.Scopes(sc.DepotFilter("users.depot_id")).
		Where("is_active = ?", true)
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	err = query.Preload("Depot").Order("created_at DESC").Find(&users).Error
	return users, err
}

func (s *UserService) FindOne(actor auth.Actor, id uint) (*models.User, error) {
	var user models.User
	err := s.DB.Preload("Depot").Preload("DriverProfile").
		Where("id = ? AND is_active = ?", id, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}

	if actor.Role == models.RoleDepotManager {
		sc, err := scope.Resolve(actor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
		}
		if !sc.AllowDepot(user.DepotID) {
			return nil, fmt.Errorf("%w: access denied", ErrForbidden)
		}
	}
	return &user, nil
}

// Me returns the caller's own profile regardless of role.
func (s *UserService) Me(actor auth.Actor) (*models.User, error) {
	var user models.User
	err := s.DB.Preload("Depot").Preload("DriverProfile").
		Where("id = ?", actor.UserID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// DepotAdmins lists every active depot manager.
func (s *UserService) DepotAdmins(actor auth.Actor) ([]models.User, error) {
	var users []models.User
	err := s.DB.Where("role = ? AND is_active = ?", models.RoleDepotManager, true).
		Preload("Depot").
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

type UpdateUserInput struct {
	Email    *string      `json:"email"`
	Password *string      `json:"password"`
	Role     *models.Role `json:"role"`
	DepotID  *uint        `json:"depot_id"`
}

func (s *UserService) Update(actor auth.Actor, id uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.FindOne(actor, id)
	if err != nil {
		return nil, err
	}
	before := *user

	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Role != nil {
		if !models.ValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: invalid role", ErrValidation)
		}
		user.Role = *in.Role
	}
	if in.DepotID != nil {
		user.DepotID = in.DepotID
	}
	if in.Password != nil {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, hashErr
		}
		user.PasswordHash = string(hash)
	}

	if err := s.DB.Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email already in use", ErrConflict)
		}
		return nil, err
	}

	s.Audit.Log(ContextFor(actor), "User", user.ID, models.AuditUpdate, before, user)
	return user, nil
}

func (s *UserService) Remove(actor auth.Actor, id uint) error {
	user, err := s.FindOne(actor, id)
	if err != nil {
		return err
	}

	if err := s.DB.Model(user).Update("is_active", false).Error; err != nil {
		return err
	}
	if err := s.DB.Delete(user).Error; err != nil {
		return err
	}

	s.Audit.Log(ContextFor(actor), "User", user.ID, models.AuditDelete, user, nil)
	return nil
}

// FindByEmail is the login lookup; soft-deleted and inactive users are
// treated as absent by the caller.
func (s *UserService) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Preload("Depot").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

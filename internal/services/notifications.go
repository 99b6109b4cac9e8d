package services

import (
	"errors"
	"fmt"
	"time"

	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"depot_tracker/internal/auth"
	"depot_tracker/internal/mailer"
	"depot_tracker/internal/models"
)

const notificationPageSize = 50

// NotificationService creates in-app notifications and fans out best-effort
// email. One failed recipient never stops the loop over the others.
type NotificationService struct {
	DB     *gorm.DB
	Mailer mailer.Mailer
}

// Create inserts an in-app notification row.
func (s *NotificationService) Create(userID uint, title, message, relatedType string, relatedID uint) error {
	n := models.Notification{
		UserID:            userID,
		Title:             title,
		Message:           message,
		RelatedEntityType: relatedType,
		RelatedEntityID:   relatedID,
	}
	return s.DB.Create(&n).Error
}

// notify delivers to one recipient: the in-app row first, then best-effort
// email. Failures are logged and swallowed.
func (s *NotificationService) notify(userID uint, email, title, message, relatedType string, relatedID uint) {
	if err := s.Create(userID, title, message, relatedType, relatedID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to create notification")
		return
	}
	if err := s.Mailer.Send(email, title, message); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to send notification email")
	}
}

// SendComplianceDueSoon notifies the driver and every active depot manager
// of the driver's depot.
func (s *NotificationService) SendComplianceDueSoon(profileID, complianceID uint, typeName string, dueDate time.Time) {
	profile, managers, err := s.loadRecipients(profileID)
	if err != nil {
		logrus.WithError(err).WithField("driver_profile_id", profileID).Error("Failed to load notification recipients")
		return
	}
	if profile == nil {
		return
	}

	due := dueDate.Format("02 Jan 2006")
	title := typeName + " Due Soon"
	message := fmt.Sprintf("Your %s compliance is due on %s. Please ensure it is completed on time.", typeName, due)
	s.notify(profile.UserID, profile.User.Email, title, message, "DriverCompliance", complianceID)

	for _, manager := range managers {
		s.notify(manager.ID, manager.Email,
			fmt.Sprintf("Driver %s - %s", profile.DriverName, title),
			fmt.Sprintf("Driver %s (PF: %s) has %s due on %s.", profile.DriverName, profile.PFNumber, typeName, due),
			"DriverCompliance", complianceID)
	}
}

// SendComplianceOverdue notifies driver and managers, and escalates to every
// active super admin; the escalation tier exists only on the overdue path.
func (s *NotificationService) SendComplianceOverdue(profileID, complianceID uint, typeName string, dueDate time.Time) {
	profile, managers, err := s.loadRecipients(profileID)
	if err != nil {
		logrus.WithError(err).WithField("driver_profile_id", profileID).Error("Failed to load notification recipients")
		return
	}
	if profile == nil {
		return
	}

	due := dueDate.Format("02 Jan 2006")
	title := typeName + " Overdue"
	message := fmt.Sprintf("Your %s compliance was due on %s and is now overdue. Please complete it immediately.", typeName, due)
	s.notify(profile.UserID, profile.User.Email, title, message, "DriverCompliance", complianceID)

	for _, manager := range managers {
		s.notify(manager.ID, manager.Email,
			fmt.Sprintf("URGENT: Driver %s - %s", profile.DriverName, title),
			fmt.Sprintf("Driver %s (PF: %s) has %s that was due on %s and is now OVERDUE.", profile.DriverName, profile.PFNumber, typeName, due),
			"DriverCompliance", complianceID)
	}

	var admins []models.User
	if err := s.DB.Where("role = ? AND is_active = ?", models.RoleSuperAdmin, true).Find(&admins).Error; err != nil {
		logrus.WithError(err).Error("Failed to load super admins for escalation")
		return
	}
	depotName := ""
	if profile.Depot != nil {
		depotName = profile.Depot.Name
	}
	for _, admin := range admins {
		s.notify(admin.ID, admin.Email,
			fmt.Sprintf("ESCALATION: %s - %s", profile.DriverName, title),
			fmt.Sprintf("Driver %s (PF: %s) from %s has %s that is OVERDUE since %s.", profile.DriverName, profile.PFNumber, depotName, typeName, due),
			"DriverCompliance", complianceID)
	}
}

// loadRecipients fetches the profile with its user and depot plus the active
// depot managers. A vanished profile yields (nil, nil, nil): nothing to do.
func (s *NotificationService) loadRecipients(profileID uint) (*models.DriverProfile, []models.User, error) {
	var profile models.DriverProfile
	err := s.DB.Preload("User").Preload("Depot").First(&profile, profileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if profile.User == nil {
		return nil, nil, fmt.Errorf("driver profile %d has no user", profileID)
	}

	var managers []models.User
	err = s.DB.Where("depot_id = ? AND role = ? AND is_active = ?", profile.DepotID, models.RoleDepotManager, true).
		Find(&managers).Error
	if err != nil {
		return nil, nil, err
	}
	return &profile, managers, nil
}

// ListForUser returns the caller's notifications, newest first, capped.
func (s *NotificationService) ListForUser(actor auth.Actor, isRead *bool) ([]models.Notification, error) {
	query := s.DB.Where("user_id = ?", actor.UserID)
	if isRead != nil {
		query = query.Where("is_read = ?", *isRead)
	}
	var notifications []models.Notification
	err := query.Order("created_at DESC").Limit(notificationPageSize).Find(&notifications).Error
	return notifications, err
}

// MarkRead flips one notification owned by the caller.
func (s *NotificationService) MarkRead(actor auth.Actor, id uint) error {
	result := s.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, actor.UserID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: notification", ErrNotFound)
	}
	return nil
}

// MarkAllRead flips every unread notification of the caller.
func (s *NotificationService) MarkAllRead(actor auth.Actor) error {
	return s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.UserID, false).
		Update("is_read", true).Error
}

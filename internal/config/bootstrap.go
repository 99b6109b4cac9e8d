package config

import (
	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"depot_tracker/internal/models"
)

// Bootstrap seeds the reference data a fresh deployment needs: default
// system settings, the compliance type catalogue, and the super admin
// account named in the environment.
func Bootstrap(db *gorm.DB) error {
	if err := ensureDefaultSettings(db); err != nil {
		return err
	}
	if err := ensureComplianceTypes(db); err != nil {
		return err
	}
	if err := ensureMaintenanceTypes(db); err != nil {
		return err
	}
	return ensureSuperAdmin(db)
}

func ensureMaintenanceTypes(db *gorm.DB) error {
	types := []models.MaintenanceType{
		{Name: "Calibration", Description: "Periodic instrument calibration", DefaultFrequencyMonths: 12, IsActive: true},
		{Name: "Overhaul", Description: "Running-hours based overhaul", DefaultFrequencyHours: 5000, IsActive: true},
		{Name: "Safety Inspection", Description: "Statutory safety inspection", DefaultFrequencyMonths: 6, IsActive: true},
	}
	for _, mt := range types {
		var existing models.MaintenanceType
		err := db.Where("name = ?", mt.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&mt).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureDefaultSettings(db *gorm.DB) error {
	defaults := []models.SystemSetting{
		{Key: models.SettingDueSoonThresholdDays, Value: "7", Description: "Days before due date to show amber warning"},
		{Key: models.SettingNotificationDays, Value: "2", Description: "Days before due date to send notification"},
		{Key: models.SettingNotificationMode, Value: models.NotifyEveryRun, Description: "every-run repeats daily; once-until-read suppresses while an unread alert exists"},
		{Key: models.SettingTimezone, Value: "Asia/Kolkata", Description: "Default timezone for date display"},
	}
	for _, setting := range defaults {
		var existing models.SystemSetting
		err := db.Where("key = ?", setting.Key).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&setting).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureComplianceTypes(db *gorm.DB) error {
	types := []models.ComplianceType{
		{Name: models.ComplianceTypePME, Description: "Periodic Medical Examination", DefaultFrequencyMonths: 48, IsActive: true},
		{Name: models.ComplianceTypeGRS, Description: "General Rules Refresher", DefaultFrequencyMonths: 36, IsActive: true},
		{Name: models.ComplianceTypeTR4, Description: "Traction Route Re-certification", DefaultFrequencyMonths: 12, IsActive: true},
		{Name: models.ComplianceTypeOC, Description: "Operational Competency", DefaultFrequencyMonths: 24, IsActive: true},
	}
	for _, ct := range types {
		var existing models.ComplianceType
		err := db.Where("name = ?", ct.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&ct).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureSuperAdmin(db *gorm.DB) error {
	email := GetEnv("SUPER_ADMIN_EMAIL", "")
	password := GetEnv("SUPER_ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		logrus.Warn("Super admin credentials not provided in environment variables")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logrus.WithField("email", email).Info("Super admin created")
	return nil
}

// internal/models/system_setting.go
package models

import "gorm.io/gorm"

// Well-known setting keys.
const (
	SettingDueSoonThresholdDays = "DUE_SOON_THRESHOLD_DAYS" // amber badge window
	SettingNotificationDays     = "NOTIFICATION_BEFORE_DAYS" // scheduler window
	SettingNotificationMode     = "NOTIFICATION_MODE"
	SettingTimezone             = "TIMEZONE"
)

// NOTIFICATION_MODE values.
const (
	NotifyEveryRun  = "every-run"
	NotifyUntilRead = "once-until-read"
)

type SystemSetting struct {
	gorm.Model
	Key         string `json:"key" gorm:"unique;not null"`
	Value       string `json:"value"`
	Description string `json:"description"`
	UpdatedBy   string `json:"updated_by"`
}

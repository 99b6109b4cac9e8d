package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depot_tracker/internal/models"
)

func TestSettingsCache(t *testing.T) {
	seed := func(t *testing.T) (*env, *SettingsService, *time.Time) {
		e := newEnv(t)
		svc := NewSettingsService(e.db)
		now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		svc.Now = func() time.Time { return now }
		require.NoError(t, e.db.Create(&models.SystemSetting{
			Key: models.SettingDueSoonThresholdDays, Value: "7",
		}).Error)
		return e, svc, &now
	}

	t.Run("serves stale value inside the ttl", func(t *testing.T) {
		e, svc, now := seed(t)

		value, err := svc.Get(models.SettingDueSoonThresholdDays)
		require.NoError(t, err)
		assert.Equal(t, "7", value)

		// Mutate behind the cache's back.
		require.NoError(t, e.db.Model(&models.SystemSetting{}).
			Where("key = ?", models.SettingDueSoonThresholdDays).
			Update("value", "14").Error)

		*now = now.Add(settingsCacheTTL - time.Second)
		value, err = svc.Get(models.SettingDueSoonThresholdDays)
		require.NoError(t, err)
		assert.Equal(t, "7", value)

		*now = now.Add(2 * time.Second)
		value, err = svc.Get(models.SettingDueSoonThresholdDays)
		require.NoError(t, err)
		assert.Equal(t, "14", value, "expired entry re-reads the row")
	})

	t.Run("update invalidates its own key", func(t *testing.T) {
		e, svc, _ := seed(t)

		_, err := svc.Get(models.SettingDueSoonThresholdDays)
		require.NoError(t, err)

		_, err = svc.Update(e.admin, models.SettingDueSoonThresholdDays, UpdateSettingInput{Value: "10"})
		require.NoError(t, err)

		value, err := svc.Get(models.SettingDueSoonThresholdDays)
		require.NoError(t, err)
		assert.Equal(t, "10", value)

		var row models.SystemSetting
		require.NoError(t, e.db.Where("key = ?", models.SettingDueSoonThresholdDays).First(&row).Error)
		assert.Equal(t, e.admin.Email, row.UpdatedBy)
	})

	t.Run("get int rejects non numeric value", func(t *testing.T) {
		e, svc, _ := seed(t)
		require.NoError(t, e.db.Create(&models.SystemSetting{
			Key: models.SettingTimezone, Value: "Asia/Kolkata",
		}).Error)

		_, err := svc.GetInt(models.SettingTimezone)
		assert.ErrorIs(t, err, ErrValidation)

		n, err := svc.GetInt(models.SettingDueSoonThresholdDays)
		require.NoError(t, err)
		assert.Equal(t, 7, n)
	})

	t.Run("unknown key is not found", func(t *testing.T) {
		_, svc, _ := seed(t)
		_, err := svc.Get("NO_SUCH_KEY")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("create rejects duplicate key", func(t *testing.T) {
		e, svc, _ := seed(t)
		_, err := svc.Create(e.admin, CreateSettingInput{
			Key: models.SettingDueSoonThresholdDays, Value: "3",
		})
		assert.ErrorIs(t, err, ErrConflict)
	})
}

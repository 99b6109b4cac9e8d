// Package scheduler runs the daily compliance sweeps. It reuses the same
// date comparisons the status classifier encodes and fans out through the
// notification service. In the default every-run mode a record overdue for
// ten days produces ten alerts; the NOTIFICATION_MODE setting can switch to
// once-until-read, which holds further alerts while an unread one exists.
package scheduler

import (
	"context"
	"sync"
	"time"

	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"depot_tracker/internal/models"
	"depot_tracker/internal/services"
)

// fireHour is the wall-clock hour (process-local) of the daily run.
const fireHour = 9

type Scheduler struct {
	DB       *gorm.DB
	Notifier *services.NotificationService
	Settings *services.SettingsService
	Now      func() time.Time

	stop chan struct{}
	wg   sync.WaitGroup
}

func New(db *gorm.DB, notifier *services.NotificationService, settings *services.SettingsService) *Scheduler {
	return &Scheduler{
		DB:       db,
		Notifier: notifier,
		Settings: settings,
		Now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Start launches the daily loop. The first run fires at the next 09:00
// local time, then every 24 hours.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop signals the loop to exit and waits for it.
func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()
	for {
		timer := time.NewTimer(time.Until(s.nextRun()))
		select {
		case <-s.stop:
			timer.Stop()
			logrus.Info("Notification scheduler stopping")
			return
		case <-ctx.Done():
			timer.Stop()
			logrus.Info("Context canceled, notification scheduler exiting")
			return
		case <-timer.C:
			s.RunOnce()
		}
	}
}

// nextRun is the next 09:00 after now.
func (s *Scheduler) nextRun() time.Time {
	now := s.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), fireHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunOnce executes both daily passes. Each pass catches its own failures so
// one bad day never kills the loop.
func (s *Scheduler) RunOnce() {
	s.RunDueSoonPass()
	s.RunOverduePass()
}

// RunDueSoonPass notifies on compliances with a due date inside
// [now, now + NOTIFICATION_BEFORE_DAYS], both ends inclusive.
func (s *Scheduler) RunDueSoonPass() {
	logrus.Info("Running daily compliance due soon check")

	notificationDays, err := s.Settings.GetInt(models.SettingNotificationDays)
	if err != nil {
		logrus.WithError(err).Error("Failed to read notification window setting")
		return
	}

	now := s.Now()
	windowEnd := now.AddDate(0, 0, notificationDays)

	var compliances []models.DriverCompliance
	err = s.DB.Preload("ComplianceType").
		Where("due_date >= ? AND due_date <= ? AND is_active = ?", now, windowEnd, true).
		Find(&compliances).Error
	if err != nil {
		logrus.WithError(err).Error("Due soon pass query failed")
		return
	}

	logrus.WithField("count", len(compliances)).Info("Found compliances due soon")
	for _, compliance := range compliances {
		if compliance.ComplianceType == nil || s.suppressed(compliance.ID) {
			continue
		}
		s.Notifier.SendComplianceDueSoon(
			compliance.DriverProfileID,
			compliance.ID,
			compliance.ComplianceType.Name,
			compliance.DueDate,
		)
	}
}

// suppressed reports whether alerts for this compliance should be skipped.
// In once-until-read mode an existing unread alert silences further ones
// until someone acknowledges it; the default mode repeats every run.
func (s *Scheduler) suppressed(complianceID uint) bool {
	mode, err := s.Settings.Get(models.SettingNotificationMode)
	if err != nil || mode != models.NotifyUntilRead {
		return false
	}

	var count int64
	err = s.DB.Model(&models.Notification{}).
		Where("related_entity_type = ? AND related_entity_id = ? AND is_read = ?",
			"DriverCompliance", complianceID, false).
		Count(&count).Error
	if err != nil {
		logrus.WithError(err).Warn("Suppression check failed, notifying anyway")
		return false
	}
	return count > 0
}

// RunOverduePass notifies on compliances whose due date is strictly past,
// escalating to super admins.
func (s *Scheduler) RunOverduePass() {
	logrus.Info("Running daily compliance overdue check")

	now := s.Now()

	var compliances []models.DriverCompliance
	err := s.DB.Preload("ComplianceType").
		Where("due_date < ? AND is_active = ?", now, true).
		Find(&compliances).Error
	if err != nil {
		logrus.WithError(err).Error("Overdue pass query failed")
		return
	}

	logrus.WithField("count", len(compliances)).Info("Found overdue compliances")
	for _, compliance := range compliances {
		if compliance.ComplianceType == nil || s.suppressed(compliance.ID) {
			continue
		}
		s.Notifier.SendComplianceOverdue(
			compliance.DriverProfileID,
			compliance.ID,
			compliance.ComplianceType.Name,
			compliance.DueDate,
		)
	}
}

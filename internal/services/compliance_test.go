package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depot_tracker/internal/models"
)

func newComplianceService(e *env) *ComplianceService {
	return &ComplianceService{DB: e.db, Audit: e.audit}
}

func TestComplianceCreate(t *testing.T) {
	done := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	due := done.AddDate(4, 0, 0)

	t.Run("manager creates for driver in own depot", func(t *testing.T) {
		e := newEnv(t)
		svc := newComplianceService(e)
		ct := e.seedComplianceType(t, models.ComplianceTypePME, 48)

		compliance, err := svc.Create(e.managerA, CreateComplianceInput{
			DriverProfileID:  e.profile.ID,
			ComplianceTypeID: ct.ID,
			DoneDate:         dateStr(done),
			DueDate:          dateStr(due),
			FrequencyMonths:  48,
		})
		require.NoError(t, err)
		assert.Equal(t, due, compliance.DueDate.UTC())
		assert.True(t, compliance.IsActive)

		var logs []models.AuditLog
		require.NoError(t, e.db.Where("entity_type = ? AND action = ?", "DriverCompliance", models.AuditCreate).Find(&logs).Error)
		require.Len(t, logs, 1)
		assert.Equal(t, compliance.ID, logs[0].EntityID)
	})

	t.Run("manager cannot create for driver in another depot", func(t *testing.T) {
		e := newEnv(t)
		svc := newComplianceService(e)
		ct := e.seedComplianceType(t, models.ComplianceTypePME, 48)

		_, err := svc.Create(e.managerB, CreateComplianceInput{
			DriverProfileID:  e.profile.ID,
			ComplianceTypeID: ct.ID,
			DoneDate:         dateStr(done),
			DueDate:          dateStr(due),
			FrequencyMonths:  48,
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("duplicate pair is accepted", func(t *testing.T) {
		e := newEnv(t)
		svc := newComplianceService(e)
		ct := e.seedComplianceType(t, models.ComplianceTypeGRS, 36)

		in := CreateComplianceInput{
			DriverProfileID:  e.profile.ID,
			ComplianceTypeID: ct.ID,
			DoneDate:         dateStr(done),
			DueDate:          dateStr(due),
			FrequencyMonths:  36,
		}
		_, err := svc.Create(e.admin, in)
		require.NoError(t, err)
		_, err = svc.Create(e.admin, in)
		require.NoError(t, err, "the cleanup script, not the create path, repairs duplicates")
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		e := newEnv(t)
		svc := newComplianceService(e)
		ct := e.seedComplianceType(t, models.ComplianceTypeOC, 24)

		_, err := svc.Create(e.admin, CreateComplianceInput{
			DriverProfileID:  e.profile.ID,
			ComplianceTypeID: ct.ID,
			DoneDate:         "10-01-2026",
			DueDate:          dateStr(due),
			FrequencyMonths:  24,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown profile is not found", func(t *testing.T) {
		e := newEnv(t)
		svc := newComplianceService(e)
		ct := e.seedComplianceType(t, models.ComplianceTypePME, 48)

		_, err := svc.Create(e.admin, CreateComplianceInput{
			DriverProfileID:  9999,
			ComplianceTypeID: ct.ID,
			DoneDate:         dateStr(done),
			DueDate:          dateStr(due),
			FrequencyMonths:  48,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestComplianceFindAll(t *testing.T) {
	done := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	seedBothDepots := func(t *testing.T, e *env, svc *ComplianceService) models.DriverProfile {
		ct := e.seedComplianceType(t, models.ComplianceTypePME, 48)
		other := e.addProfileInDepot(t, e.depotB.ID, "PF2001")
		for _, profileID := range []uint{e.profile.ID, other.ID} {
			_, err := svc.Create(e.admin, CreateComplianceInput{
				DriverProfileID:  profileID,
				ComplianceTypeID: ct.ID,
				DoneDate:         dateStr(done),
				DueDate:          dateStr(done.AddDate(4, 0, 0)),
				FrequencyMonths:  48,
			})
			require.NoError(t, err)
		}
		return other
	}

	t.Run("manager sees only own depot", func(t *testing.T) {
		e := newEnv(t)
		svc := newComplianceService(e)
		seedBothDepots(t, e, svc)

		compliances, err := svc.FindAll(e.managerA, 0)
		require.NoError(t, err)
		require.Len(t, compliances, 1)
		assert.Equal(t, e.profile.ID, compliances[0].DriverProfileID)
	})

	t.Run("driver sees only own records", func(t *testing.T) {
		e := newEnv(t)
		svc := newComplianceService(e)
		seedBothDepots(t, e, svc)

		compliances, err := svc.FindAll(e.driver, 0)
		require.NoError(t, err)
		require.Len(t, compliances, 1)
		assert.Equal(t, e.profile.ID, compliances[0].DriverProfileID)
	})

	t.Run("admin sees everything ordered by due date", func(t *testing.T) {
		e := newEnv(t)
		svc := newComplianceService(e)
		seedBothDepots(t, e, svc)

		compliances, err := svc.FindAll(e.admin, 0)
		require.NoError(t, err)
		assert.Len(t, compliances, 2)
	})

	t.Run("manager without depot is rejected", func(t *testing.T) {
		e := newEnv(t)
		svc := newComplianceService(e)

		broken := e.managerA
		broken.DepotID = nil
		_, err := svc.FindAll(broken, 0)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestComplianceUpdateOverride(t *testing.T) {
	done := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	due := done.AddDate(4, 0, 0)

	seed := func(t *testing.T) (*env, *ComplianceService, *models.DriverCompliance) {
		e := newEnv(t)
		svc := newComplianceService(e)
		ct := e.seedComplianceType(t, models.ComplianceTypePME, 48)
		compliance, err := svc.Create(e.admin, CreateComplianceInput{
			DriverProfileID:  e.profile.ID,
			ComplianceTypeID: ct.ID,
			DoneDate:         dateStr(done),
			DueDate:          dateStr(due),
			FrequencyMonths:  48,
		})
		require.NoError(t, err)
		return e, svc, compliance
	}

	t.Run("notes edit is not an override", func(t *testing.T) {
		e, svc, compliance := seed(t)
		notes := "medical certificate attached"
		updated, err := svc.Update(e.managerA, compliance.ID, UpdateComplianceInput{Notes: &notes})
		require.NoError(t, err)
		assert.Equal(t, notes, updated.Notes)
	})

	t.Run("manager cannot change due date", func(t *testing.T) {
		e, svc, compliance := seed(t)
		newDue := dateStr(due.AddDate(0, 6, 0))
		_, err := svc.Update(e.managerA, compliance.ID, UpdateComplianceInput{DueDate: &newDue})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin override without rationale is rejected", func(t *testing.T) {
		e, svc, compliance := seed(t)
		newDue := dateStr(due.AddDate(0, 6, 0))
		_, err := svc.Update(e.admin, compliance.ID, UpdateComplianceInput{DueDate: &newDue})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("admin override with rationale lands on the audit trail", func(t *testing.T) {
		e, svc, compliance := seed(t)
		newDue := due.AddDate(0, 6, 0)
		newDueStr := dateStr(newDue)

		updated, err := svc.Update(e.admin, compliance.ID, UpdateComplianceInput{
			DueDate:               &newDueStr,
			OverrideReason:        "medical extension",
			OverrideJustification: "approved by divisional office letter 42/2026",
		})
		require.NoError(t, err)
		assert.Equal(t, newDue, updated.DueDate.UTC())

		var logs []models.AuditLog
		require.NoError(t, e.db.Where("entity_type = ? AND action = ?", "DriverCompliance", models.AuditUpdate).Find(&logs).Error)
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].OldValue, "medical extension")
		assert.Contains(t, logs[0].OldValue, "approved by divisional office letter 42/2026")

		var row models.DriverCompliance
		require.NoError(t, e.db.First(&row, compliance.ID).Error)
		// the live row never stores the rationale
		assert.NotContains(t, row.Notes, "medical extension")
	})

	t.Run("setting identical due date is not an override", func(t *testing.T) {
		e, svc, compliance := seed(t)
		same := dateStr(due)
		_, err := svc.Update(e.managerA, compliance.ID, UpdateComplianceInput{DueDate: &same})
		require.NoError(t, err)
	})
}

func TestComplianceRemove(t *testing.T) {
	done := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("removed record disappears from reads", func(t *testing.T) {
		e := newEnv(t)
		svc := newComplianceService(e)
		ct := e.seedComplianceType(t, models.ComplianceTypePME, 48)
		compliance, err := svc.Create(e.admin, CreateComplianceInput{
			DriverProfileID:  e.profile.ID,
			ComplianceTypeID: ct.ID,
			DoneDate:         dateStr(done),
			DueDate:          dateStr(done.AddDate(4, 0, 0)),
			FrequencyMonths:  48,
		})
		require.NoError(t, err)

		require.NoError(t, svc.Remove(e.admin, compliance.ID))

		_, err = svc.FindOne(e.admin, compliance.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		err = svc.Remove(e.admin, compliance.ID)
		assert.ErrorIs(t, err, ErrNotFound, "second delete reports not found")

		compliances, err := svc.FindAll(e.admin, 0)
		require.NoError(t, err)
		assert.Empty(t, compliances)
	})
}

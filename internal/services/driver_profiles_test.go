package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depot_tracker/internal/models"
)

func newProfileService(e *env) *DriverProfileService {
	return &DriverProfileService{DB: e.db, Audit: e.audit}
}

func validProfileInput(depotID uint) CreateDriverProfileInput {
	return CreateDriverProfileInput{
		Email:             "s.rao@depot.test",
		Password:          "changeme123",
		PFNumber:          "PF3001",
		DriverName:        "S. Rao",
		Designation:       "Sr. ALP",
		BasicPay:          56100,
		DateOfAppointment: "2015-06-01",
		DateOfEntry:       "2015-07-15",
		DepotID:           depotID,
	}
}

func TestDriverProfileCreate(t *testing.T) {
	t.Run("creates user and profile together", func(t *testing.T) {
		e := newEnv(t)
		svc := newProfileService(e)

		result, err := svc.Create(e.admin, validProfileInput(e.depotA.ID))
		require.NoError(t, err)
		assert.Equal(t, OutcomeCreated, result.Outcome)
		assert.Equal(t, "PF3001", result.Profile.PFNumber)

		var user models.User
		require.NoError(t, e.db.Where("email = ?", "s.rao@depot.test").First(&user).Error)
		assert.Equal(t, models.RoleDriver, user.Role)
		require.NotNil(t, user.DepotID)
		assert.Equal(t, e.depotA.ID, *user.DepotID)
	})

	t.Run("manager pinned to own depot", func(t *testing.T) {
		e := newEnv(t)
		svc := newProfileService(e)

		_, err := svc.Create(e.managerA, validProfileInput(e.depotB.ID))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("active pf number conflicts", func(t *testing.T) {
		e := newEnv(t)
		svc := newProfileService(e)

		in := validProfileInput(e.depotA.ID)
		in.PFNumber = e.profile.PFNumber
		_, err := svc.Create(e.admin, in)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("active email conflicts", func(t *testing.T) {
		e := newEnv(t)
		svc := newProfileService(e)

		in := validProfileInput(e.depotA.ID)
		in.Email = e.driverUser.Email
		_, err := svc.Create(e.admin, in)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("soft deleted pf number reactivates in place", func(t *testing.T) {
		e := newEnv(t)
		svc := newProfileService(e)

		result, err := svc.Create(e.admin, validProfileInput(e.depotA.ID))
		require.NoError(t, err)
		firstID := result.Profile.ID

		require.NoError(t, svc.Remove(e.admin, firstID))

		in := validProfileInput(e.depotB.ID)
		in.DriverName = "S. Rao (transferred)"
		result, err = svc.Create(e.admin, in)
		require.NoError(t, err)
		assert.Equal(t, OutcomeReactivatedProfile, result.Outcome)
		assert.Equal(t, firstID, result.Profile.ID, "same row comes back, no unique key collision")
		assert.Equal(t, e.depotB.ID, result.Profile.DepotID)
		assert.True(t, result.Profile.IsActive)
	})

	t.Run("soft deleted email gains a fresh profile", func(t *testing.T) {
		e := newEnv(t)
		svc := newProfileService(e)

		result, err := svc.Create(e.admin, validProfileInput(e.depotA.ID))
		require.NoError(t, err)
		userID := result.Profile.UserID

		// Remove the user directly, leaving pf number free.
		userSvc := &UserService{DB: e.db, Audit: e.audit}
		require.NoError(t, e.db.Model(&models.DriverProfile{}).Where("id = ?", result.Profile.ID).Update("is_active", false).Error)
		require.NoError(t, e.db.Delete(&models.DriverProfile{}, result.Profile.ID).Error)
		require.NoError(t, userSvc.Remove(e.admin, userID))

		in := validProfileInput(e.depotA.ID)
		in.PFNumber = "PF3002"
		result, err = svc.Create(e.admin, in)
		require.NoError(t, err)
		assert.Equal(t, OutcomeReactivatedUser, result.Outcome)
		assert.Equal(t, userID, result.Profile.UserID, "user row reused")
		assert.Equal(t, "PF3002", result.Profile.PFNumber)
	})
}

func TestDriverProfileVisibility(t *testing.T) {
	t.Run("driver sees only own profile", func(t *testing.T) {
		e := newEnv(t)
		svc := newProfileService(e)
		other := e.addProfileInDepot(t, e.depotA.ID, "PF2001")

		profiles, err := svc.FindAll(e.driver)
		require.NoError(t, err)
		require.Len(t, profiles, 1)
		assert.Equal(t, e.profile.ID, profiles[0].ID)

		_, err = svc.FindOne(e.driver, other.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("manager confined to own depot", func(t *testing.T) {
		e := newEnv(t)
		svc := newProfileService(e)
		e.addProfileInDepot(t, e.depotB.ID, "PF2002")

		profiles, err := svc.FindAll(e.managerA)
		require.NoError(t, err)
		require.Len(t, profiles, 1)

		_, err = svc.FindOne(e.managerB, e.profile.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin sees all depots", func(t *testing.T) {
		e := newEnv(t)
		svc := newProfileService(e)
		e.addProfileInDepot(t, e.depotB.ID, "PF2003")

		profiles, err := svc.FindAll(e.admin)
		require.NoError(t, err)
		assert.Len(t, profiles, 2)
	})
}

func TestDriverProfileRemove(t *testing.T) {
	e := newEnv(t)
	svc := newProfileService(e)

	require.NoError(t, svc.Remove(e.admin, e.profile.ID))

	_, err := svc.FindOne(e.admin, e.profile.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Remove(e.admin, e.profile.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

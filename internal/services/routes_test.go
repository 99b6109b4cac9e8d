package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depot_tracker/internal/models"
)

func newRouteService(e *env) *RouteService {
	return &RouteService{DB: e.db, Audit: e.audit}
}

func (e *env) seedPredefinedSection(t *testing.T, code string) models.RouteSection {
	t.Helper()
	section := models.RouteSection{Code: code, Name: "Section " + code, IsPredefined: true, IsActive: true}
	require.NoError(t, e.db.Create(&section).Error)
	return section
}

func TestRouteSections(t *testing.T) {
	t.Run("manager section pinned to own depot", func(t *testing.T) {
		e := newEnv(t)
		svc := newRouteService(e)

		section, err := svc.CreateSection(e.managerA, CreateRouteSectionInput{
			Code: "KCG-FM", Name: "Kacheguda - Falaknuma", DepotID: &e.depotB.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, section.DepotID)
		assert.Equal(t, e.depotA.ID, *section.DepotID, "payload depot is ignored for managers")
		assert.False(t, section.IsPredefined)
	})

	t.Run("manager listing unions predefined and own depot", func(t *testing.T) {
		e := newEnv(t)
		svc := newRouteService(e)
		e.seedPredefinedSection(t, "SC-KCG")

		_, err := svc.CreateSection(e.managerA, CreateRouteSectionInput{Code: "KCG-A", Name: "Custom A"})
		require.NoError(t, err)
		_, err = svc.CreateSection(e.managerB, CreateRouteSectionInput{Code: "MLY-B", Name: "Custom B"})
		require.NoError(t, err)

		sections, err := svc.FindAllSections(e.managerA)
		require.NoError(t, err)
		codes := make([]string, 0, len(sections))
		for _, s := range sections {
			codes = append(codes, s.Code)
		}
		assert.ElementsMatch(t, []string{"SC-KCG", "KCG-A"}, codes)
	})

	t.Run("predefined sections are immutable", func(t *testing.T) {
		e := newEnv(t)
		svc := newRouteService(e)
		section := e.seedPredefinedSection(t, "SC-KCG")

		name := "renamed"
		_, err := svc.UpdateSection(e.admin, section.ID, UpdateRouteSectionInput{Name: &name})
		assert.ErrorIs(t, err, ErrForbidden)

		err = svc.RemoveSection(e.admin, section.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("manager cannot touch another depot's section", func(t *testing.T) {
		e := newEnv(t)
		svc := newRouteService(e)

		section, err := svc.CreateSection(e.managerB, CreateRouteSectionInput{Code: "MLY-C", Name: "Custom C"})
		require.NoError(t, err)

		name := "renamed"
		_, err = svc.UpdateSection(e.managerA, section.ID, UpdateRouteSectionInput{Name: &name})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestRouteAuths(t *testing.T) {
	t.Run("expiry must be strictly after authorized", func(t *testing.T) {
		e := newEnv(t)
		svc := newRouteService(e)
		section := e.seedPredefinedSection(t, "SC-KCG")

		_, err := svc.CreateRouteAuth(e.admin, CreateRouteAuthInput{
			DriverProfileID: e.profile.ID,
			RouteSectionID:  section.ID,
			AuthorizedDate:  "2026-01-10",
			ExpiryDate:      "2026-01-10",
		})
		assert.ErrorIs(t, err, ErrValidation)

		routeAuth, err := svc.CreateRouteAuth(e.admin, CreateRouteAuthInput{
			DriverProfileID: e.profile.ID,
			RouteSectionID:  section.ID,
			AuthorizedDate:  "2026-01-10",
			ExpiryDate:      "2026-01-11",
		})
		require.NoError(t, err)
		assert.True(t, routeAuth.ExpiryDate.After(routeAuth.AuthorizedDate))
	})

	t.Run("update re-validates the date pair", func(t *testing.T) {
		e := newEnv(t)
		svc := newRouteService(e)
		section := e.seedPredefinedSection(t, "SC-KCG")

		routeAuth, err := svc.CreateRouteAuth(e.admin, CreateRouteAuthInput{
			DriverProfileID: e.profile.ID,
			RouteSectionID:  section.ID,
			AuthorizedDate:  "2026-01-10",
			ExpiryDate:      "2027-01-10",
		})
		require.NoError(t, err)

		bad := "2026-01-09"
		_, err = svc.UpdateRouteAuth(e.admin, routeAuth.ID, UpdateRouteAuthInput{ExpiryDate: &bad})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("driver sees only own authorizations", func(t *testing.T) {
		e := newEnv(t)
		svc := newRouteService(e)
		section := e.seedPredefinedSection(t, "SC-KCG")
		other := e.addProfileInDepot(t, e.depotB.ID, "PF2001")

		for _, profileID := range []uint{e.profile.ID, other.ID} {
			_, err := svc.CreateRouteAuth(e.admin, CreateRouteAuthInput{
				DriverProfileID: profileID,
				RouteSectionID:  section.ID,
				AuthorizedDate:  "2026-01-10",
				ExpiryDate:      "2027-01-10",
			})
			require.NoError(t, err)
		}

		auths, err := svc.FindAllRouteAuths(e.driver, 0)
		require.NoError(t, err)
		require.Len(t, auths, 1)
		assert.Equal(t, e.profile.ID, auths[0].DriverProfileID)

		auths, err = svc.FindAllRouteAuths(e.managerB, 0)
		require.NoError(t, err)
		require.Len(t, auths, 1)
		assert.Equal(t, other.ID, auths[0].DriverProfileID)
	})

	t.Run("manager cannot authorize another depot's driver", func(t *testing.T) {
		e := newEnv(t)
		svc := newRouteService(e)
		section := e.seedPredefinedSection(t, "SC-KCG")

		_, err := svc.CreateRouteAuth(e.managerB, CreateRouteAuthInput{
			DriverProfileID: e.profile.ID,
			RouteSectionID:  section.ID,
			AuthorizedDate:  "2026-01-10",
			ExpiryDate:      "2027-01-10",
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssetService(e *env) *AssetService {
	return &AssetService{DB: e.db, Audit: e.audit}
}

func TestAssets(t *testing.T) {
	t.Run("duplicate asset number conflicts", func(t *testing.T) {
		e := newEnv(t)
		svc := newAssetService(e)

		in := CreateAssetInput{Name: "Pit Wheel Lathe", AssetNumber: "AST-001", DepotID: e.depotA.ID}
		_, err := svc.Create(e.admin, in)
		require.NoError(t, err)

		in.Name = "Another Lathe"
		_, err = svc.Create(e.admin, in)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("manager cannot create in another depot", func(t *testing.T) {
		e := newEnv(t)
		svc := newAssetService(e)

		_, err := svc.Create(e.managerA, CreateAssetInput{
			Name: "Crane", AssetNumber: "AST-002", DepotID: e.depotB.ID,
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("listing is depot scoped and empty for drivers", func(t *testing.T) {
		e := newEnv(t)
		svc := newAssetService(e)

		_, err := svc.Create(e.admin, CreateAssetInput{Name: "Lathe", AssetNumber: "AST-003", DepotID: e.depotA.ID})
		require.NoError(t, err)
		_, err = svc.Create(e.admin, CreateAssetInput{Name: "Crane", AssetNumber: "AST-004", DepotID: e.depotB.ID})
		require.NoError(t, err)

		assets, err := svc.FindAll(e.managerA)
		require.NoError(t, err)
		require.Len(t, assets, 1)
		assert.Equal(t, "AST-003", assets[0].AssetNumber)

		assets, err = svc.FindAll(e.driver)
		require.NoError(t, err)
		assert.Empty(t, assets)
	})

	t.Run("removed asset disappears", func(t *testing.T) {
		e := newEnv(t)
		svc := newAssetService(e)

		asset, err := svc.Create(e.admin, CreateAssetInput{Name: "Jack", AssetNumber: "AST-005", DepotID: e.depotA.ID})
		require.NoError(t, err)

		require.NoError(t, svc.Remove(e.admin, asset.ID))
		_, err = svc.FindOne(e.admin, asset.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMaintenanceSchedules(t *testing.T) {
	t.Run("schedule reaches its depot through the asset", func(t *testing.T) {
		e := newEnv(t)
		assetSvc := newAssetService(e)
		svc := &MaintenanceService{DB: e.db, Audit: e.audit}

		assetA, err := assetSvc.Create(e.admin, CreateAssetInput{Name: "Lathe", AssetNumber: "AST-010", DepotID: e.depotA.ID})
		require.NoError(t, err)
		mt := seedMaintenanceType(t, e, "Calibration")

		nextDue := "2026-06-01"
		schedule, err := svc.Create(e.managerA, CreateMaintenanceInput{
			AssetID:           assetA.ID,
			MaintenanceTypeID: mt.ID,
			NextDueDate:       &nextDue,
		})
		require.NoError(t, err)

		_, err = svc.FindOne(e.managerB, schedule.ID)
		assert.ErrorIs(t, err, ErrForbidden)

		schedules, err := svc.FindAll(e.managerA, 0)
		require.NoError(t, err)
		assert.Len(t, schedules, 1)

		schedules, err = svc.FindAll(e.managerB, 0)
		require.NoError(t, err)
		assert.Empty(t, schedules)
	})

	t.Run("running hours schedule needs no dates", func(t *testing.T) {
		e := newEnv(t)
		assetSvc := newAssetService(e)
		svc := &MaintenanceService{DB: e.db, Audit: e.audit}

		asset, err := assetSvc.Create(e.admin, CreateAssetInput{Name: "Compressor", AssetNumber: "AST-011", DepotID: e.depotA.ID})
		require.NoError(t, err)
		mt := seedMaintenanceType(t, e, "Overhaul")

		hours := 5000
		schedule, err := svc.Create(e.admin, CreateMaintenanceInput{
			AssetID:           asset.ID,
			MaintenanceTypeID: mt.ID,
			NextDueHours:      &hours,
		})
		require.NoError(t, err)
		assert.Nil(t, schedule.NextDueDate)
		require.NotNil(t, schedule.NextDueHours)
		assert.Equal(t, 5000, *schedule.NextDueHours)
	})
}

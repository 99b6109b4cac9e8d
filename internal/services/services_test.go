package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"depot_tracker/internal/auth"
	"depot_tracker/internal/config"
	"depot_tracker/internal/models"
)

var testDBSeq atomic.Int64

// openTestDB opens a private in-memory database with the full schema. The
// shared-cache name keeps every pooled connection on the same database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

// env is the standard two-depot world: a super admin, one manager per
// depot, and a driver with a profile in depot A.
type env struct {
	db    *gorm.DB
	audit *AuditService

	depotA models.Depot
	depotB models.Depot

	admin    auth.Actor
	managerA auth.Actor
	managerB auth.Actor
	driver   auth.Actor

	driverUser models.User
	profile    models.DriverProfile
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := openTestDB(t)
	e := &env{db: db, audit: &AuditService{DB: db}}

	e.depotA = models.Depot{Name: "Kacheguda", Code: "KCG", IsActive: true}
	e.depotB = models.Depot{Name: "Moula Ali", Code: "MLY", IsActive: true}
	require.NoError(t, db.Create(&e.depotA).Error)
	require.NoError(t, db.Create(&e.depotB).Error)

	adminUser := models.User{Email: "admin@depot.test", Role: models.RoleSuperAdmin, IsActive: true}
	managerAUser := models.User{Email: "manager.a@depot.test", Role: models.RoleDepotManager, DepotID: &e.depotA.ID, IsActive: true}
	managerBUser := models.User{Email: "manager.b@depot.test", Role: models.RoleDepotManager, DepotID: &e.depotB.ID, IsActive: true}
	e.driverUser = models.User{Email: "driver@depot.test", Role: models.RoleDriver, DepotID: &e.depotA.ID, IsActive: true}
	require.NoError(t, db.Create(&adminUser).Error)
	require.NoError(t, db.Create(&managerAUser).Error)
	require.NoError(t, db.Create(&managerBUser).Error)
	require.NoError(t, db.Create(&e.driverUser).Error)

	e.admin = actorFor(adminUser)
	e.managerA = actorFor(managerAUser)
	e.managerB = actorFor(managerBUser)
	e.driver = actorFor(e.driverUser)

	e.profile = models.DriverProfile{
		UserID:     e.driverUser.ID,
		PFNumber:   "PF1001",
		DriverName: "R. Kumar",
		DepotID:    e.depotA.ID,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&e.profile).Error)
	return e
}

func actorFor(u models.User) auth.Actor {
	return auth.Actor{UserID: u.ID, Email: u.Email, Role: u.Role, DepotID: u.DepotID}
}

// addProfileInDepot seeds a second driver with a profile in the given depot.
func (e *env) addProfileInDepot(t *testing.T, depotID uint, pf string) models.DriverProfile {
	t.Helper()
	user := models.User{Email: pf + "@depot.test", Role: models.RoleDriver, DepotID: &depotID, IsActive: true}
	require.NoError(t, e.db.Create(&user).Error)
	profile := models.DriverProfile{
		UserID:     user.ID,
		PFNumber:   pf,
		DriverName: "Driver " + pf,
		DepotID:    depotID,
		IsActive:   true,
	}
	require.NoError(t, e.db.Create(&profile).Error)
	return profile
}

func (e *env) seedComplianceType(t *testing.T, name string, months int) models.ComplianceType {
	t.Helper()
	ct := models.ComplianceType{Name: name, DefaultFrequencyMonths: months, IsActive: true}
	require.NoError(t, e.db.Create(&ct).Error)
	return ct
}

func seedMaintenanceType(t *testing.T, e *env, name string) models.MaintenanceType {
	t.Helper()
	mt := models.MaintenanceType{Name: name, IsActive: true}
	require.NoError(t, e.db.Create(&mt).Error)
	return mt
}

func dateStr(t time.Time) string { return t.Format(dateLayout) }

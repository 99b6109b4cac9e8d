package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"depot_tracker/internal/config"
	"depot_tracker/internal/controllers"
	"depot_tracker/internal/logger"
	"depot_tracker/internal/mailer"
	"depot_tracker/internal/middleware"
	"depot_tracker/internal/routes"
	"depot_tracker/internal/scheduler"
	"depot_tracker/internal/services"
)

func main() {
	// Structured logging to file
	logger.Setup()

	// Connect to the database and migrate the schema
	config.InitDB()
	db := config.GetDB()

	// Seed settings, type catalogues and the super admin account
	if err := config.Bootstrap(db); err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}

	var mail mailer.Mailer = mailer.Noop{}
	if config.GetEnv("SMTP_HOST", "") != "" {
		mail = mailer.NewFromEnv()
	}

	audit := &services.AuditService{DB: db}
	settings := services.NewSettingsService(db)
	notifications := &services.NotificationService{DB: db, Mailer: mail}
	users := &services.UserService{DB: db, Audit: audit}

	ctl := routes.Controllers{
		Auth:          &controllers.AuthController{Users: users},
		Depot:         &controllers.DepotController{Service: &services.DepotService{DB: db, Audit: audit}},
		User:          &controllers.UserController{Service: users},
		DriverProfile: &controllers.DriverProfileController{Service: &services.DriverProfileService{DB: db, Audit: audit}},
		Compliance:    &controllers.ComplianceController{Service: &services.ComplianceService{DB: db, Audit: audit}, Settings: settings},
		Route:         &controllers.RouteController{Service: &services.RouteService{DB: db, Audit: audit}, Settings: settings},
		Asset: &controllers.AssetController{
			Assets:      &services.AssetService{DB: db, Audit: audit},
			Maintenance: &services.MaintenanceService{DB: db, Audit: audit},
		},
		Notification: &controllers.NotificationController{Service: notifications},
		Setting:      &controllers.SettingController{Service: settings},
		Audit:        &controllers.AuditController{Service: audit},
	}

	// Daily due-soon and overdue sweeps
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched := scheduler.New(db, notifications, settings)
	sched.Start(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())
	routes.SetupRouter(r, ctl)

	handler := middleware.EnableCORS(r)

	server := &http.Server{Addr: "0.0.0.0:8080", Handler: handler}
	go func() {
		log.Println("Server running at :8080")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	sched.Stop()
	if err := server.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scalecoach/internal/config"
	"scalecoach/internal/database"
	"scalecoach/internal/handlers"
	"scalecoach/internal/repository"
	"scalecoach/internal/security"
	"scalecoach/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	sessionRepo := repository.NewSessionRepository(db)
	dailyRepo := repository.NewDailyRepository(db)
	scaleRepo := repository.NewScaleRepository(db)

	// Initialize services
	practiceService := service.NewPracticeService(sessionRepo)
	dailyService := service.NewDailyService(dailyRepo)
	scaleService := service.NewScaleService(scaleRepo)

	// Seed default scales so a fresh database starts with a usable picker
	if _, err := scaleService.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed default scales: %v", err)
	}

	digestService, err := service.NewDigestService(
		cfg.AWSRegion, cfg.DigestFromEmail, cfg.DigestFromName, cfg.DigestToEmail,
		practiceService, dailyService)
	if err != nil {
		log.Fatalf("Failed to initialize digest service: %v", err)
	}

	// Initialize handlers
	gate := security.NewAdminGate(cfg.AdminPasswordHash, cfg.AdminTokenSecret, cfg.AdminTokenTTL)
	if gate.Enabled() {
		log.Println("Admin gate enabled for destructive operations")
	}

	middleware := handlers.NewMiddleware(gate)
	sessionsHandler := handlers.NewSessionsHandler(practiceService, gate)
	exerciseHandler := handlers.NewExerciseHandler(practiceService)
	dailyHandler := handlers.NewDailyHandler(dailyService, gate)
	scalesHandler := handlers.NewScalesHandler(scaleService, gate)
	databaseHandler := handlers.NewDatabaseHandler(practiceService, dailyService, scaleService)
	migrateHandler := handlers.NewMigrateHandler(practiceService, dailyService)
	adminHandler := handlers.NewAdminHandler(gate)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/sessions", sessionsHandler.Query)
	mux.HandleFunc("POST /api/sessions", sessionsHandler.Action)
	mux.HandleFunc("GET /api/sessions/exercise", exerciseHandler.Query)
	mux.HandleFunc("GET /api/daily-practice", dailyHandler.Get)
	mux.HandleFunc("POST /api/daily-practice", dailyHandler.Action)
	mux.HandleFunc("GET /api/scales", scalesHandler.GetCollection)
	mux.HandleFunc("POST /api/scales", scalesHandler.Action)
	mux.HandleFunc("POST /api/database", middleware.RequireAdmin(databaseHandler.Action))
	mux.HandleFunc("POST /api/migrate", migrateHandler.Import)
	mux.HandleFunc("POST /api/admin/login", adminHandler.Login)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background digest scheduler
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go digestService.RunScheduler(ctx, cfg.DigestHour)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}

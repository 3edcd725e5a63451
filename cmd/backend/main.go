// Package main provides the entry point for the AutosValle marketplace backend.
package main

import (
	"AutosValle-Backend/internal/analytics"
	"AutosValle-Backend/internal/auth"
	"AutosValle-Backend/internal/config"
	"AutosValle-Backend/internal/database"
	httpHandler "AutosValle-Backend/internal/handler/http"
	"AutosValle-Backend/internal/imagestore"
	"AutosValle-Backend/internal/repository/postgres"
	"AutosValle-Backend/internal/service"
	"AutosValle-Backend/pkg/logger"
	"AutosValle-Backend/pkg/useragent"
	"context"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting AutosValle marketplace backend", zap.String("env", cfg.Env))

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations if enabled
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	// Seed the bootstrap admin identity if enabled
	if cfg.Database.SeedData {
		if err := database.SeedData(db, &cfg.Auth, log); err != nil {
			log.Fatal("failed to seed database", zap.Error(err))
		}
	} else {
		log.Info("skipping database seeding (seed_data: false)")
	}

	// Initialize User-Agent parser for click analytics
	if err := useragent.InitGlobalParser("assets/regexes.yaml", log); err != nil {
		log.Warn("failed to initialize User-Agent parser, using fallback", zap.Error(err))
	}

	// Initialize storage and services
	storage := postgres.New(db, log)

	images, err := imagestore.New(cfg.Marketplace.UploadDir, log)
	if err != nil {
		log.Fatal("failed to initialize image store", zap.Error(err))
	}

	searchService := service.NewSearchService(storage, &cfg.Marketplace)
	vehicleService := service.NewVehicleService(storage, log)
	premiumService := service.NewPremiumService(storage, log)
	requestService := service.NewRequestService(storage, log)
	statsService := service.NewStatsService(storage)

	// Start the async analytics processor
	processor := analytics.NewProcessor(storage, log, analytics.DefaultConfig())
	if err := processor.Start(); err != nil {
		log.Fatal("failed to start analytics processor", zap.Error(err))
	}

	// Auth services: salted-SHA256 credentials, 15-minute JWT sessions
	passwordService := auth.NewPasswordService()
	credentialService := auth.NewCredentialService(storage, passwordService, log)
	jwtService := auth.NewJWTService(&auth.JWTConfig{
		SecretKey:       []byte(cfg.Auth.JWTSecret),
		SessionDuration: cfg.Auth.SessionTTL,
		Issuer:          "AutosValle-Backend",
	})

	// Create the HTTP server
	apiServer := httpHandler.NewServer(
		storage,
		searchService,
		vehicleService,
		premiumService,
		requestService,
		statsService,
		processor,
		credentialService,
		jwtService,
		images,
		cfg,
		log,
	)

	httpServer := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      apiServer.SetupRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	log.Info("starting HTTP server", zap.String("address", cfg.HTTPServer.Address))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down AutosValle backend...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	// Drain queued analytics events before exit
	if err := processor.Stop(); err != nil {
		log.Error("failed to stop analytics processor", zap.Error(err))
	}
}

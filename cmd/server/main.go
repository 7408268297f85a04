package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farewatch/internal/infrastructure/config"
	"farewatch/internal/infrastructure/oauth"
	"farewatch/internal/infrastructure/persistence"
	"farewatch/internal/interface/api"
	"farewatch/internal/interface/notifier"
	sweepRepo "farewatch/internal/interface/repository"
	"farewatch/internal/usecase"
	"farewatch/pkg/logger"
	"farewatch/pkg/metrics"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting FareWatch Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection for the alert delivery log
	log.Info("Connecting to MongoDB")
	mongoClient, mongoDB, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Bootstrap the schema
	if err := gormDB.AutoMigrate(&sweepRepo.Users{}, &sweepRepo.TrackedFlights{}, &sweepRepo.PriceObservations{}); err != nil {
		log.Fatal("Failed to migrate schema", "error", err)
	}

	// Set up metrics
	appMetrics := metrics.NewMetrics("farewatch")

	// Set up repositories
	flightRepository := sweepRepo.NewGormFlightRepository(gormDB)
	userRepository := sweepRepo.NewGormUserRepository(gormDB)
	observationRepository := sweepRepo.NewGormObservationRepository(gormDB)
	alertRepository := sweepRepo.NewGormAlertRepository(gormDB)
	alertLogRepository := sweepRepo.NewMongoAlertLogRepository(mongoDB)

	// Set up the fare search client with its token cache
	fareClient := sweepRepo.NewAmadeusFareClient(
		cfg.FareAPIBaseURL,
		cfg.FareClientID,
		cfg.FareClientSecret,
		cfg.FareCurrency,
		sweepRepo.NewTokenCache(),
		log,
	)

	// Set up Gmail OAuth and the alert sender
	gmailOAuth := oauth.NewGmailOAuth(
		cfg.GmailClientID,
		cfg.GmailClientSecret,
		cfg.GmailRefreshToken,
		log,
	)
	tokenSource := gmailOAuth.GetTokenSource(ctx)

	alertNotifier, err := notifier.NewGmailNotifier(ctx, tokenSource, cfg.AlertFromAddress, log)
	if err != nil {
		log.Fatal("Failed to create Gmail notifier", "error", err)
	}

	// Set up usecases
	tracker := usecase.NewFlightTracker(flightRepository, userRepository, observationRepository, alertLogRepository, log)
	sweeper := usecase.NewSweepProcessor(
		flightRepository,
		alertRepository,
		fareClient,
		alertNotifier,
		alertLogRepository,
		appMetrics,
		log,
	)

	// Start the sweep loop in a goroutine
	go func() {
		sweepTicker := time.NewTicker(cfg.SweepInterval)
		defer sweepTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Sweep loop stopped")
				return
			case <-sweepTicker.C:
				log.Info("Running price sweep")
				if _, err := sweeper.RunSweep(ctx); err != nil {
					log.Error("Sweep failed", "error", err)
				}
			}
		}
	}()

	// Set up HTTP server
	flightHandler := api.NewFlightHandler(tracker, log)
	userHandler := api.NewUserHandler(tracker, log)
	router := api.NewRouter(flightHandler, userHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop the sweep loop

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("FareWatch Service stopped")
}

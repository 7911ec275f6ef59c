package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/broker"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/config"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/database"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/jobs"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/metrics"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/notification"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/notification/fcm"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/repository"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/service"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/suppression"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/timezone"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/workers"
)

func main() {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// The worker cannot run without a broker: it consumes both queues.
	b, err := broker.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to broker", zap.Error(err))
	}
	defer b.Close()

	m := metrics.New()

	// Repositories
	reminderRepo := repository.NewReminderRepository(db)
	deviceRepo := repository.NewDeviceTokenRepository(db)
	profileRepo := repository.NewUserProfileRepository(db)
	nutritionRepo := repository.NewNutritionRepository(db)

	// Timezone resolution chain: reminder -> user profile -> service default.
	zones, err := timezone.NewResolver(profileRepo, cfg.DefaultTimezone, logger)
	if err != nil {
		logger.Fatal("failed to build timezone resolver", zap.Error(err))
	}

	// Push client (no-op when credentials are absent).
	var push notification.PushClient = notification.NoopClient{}
	if cfg.FCMProjectID != "" && cfg.FCMCredentials != "" {
		fcmClient, err := fcm.NewClient(fcm.Config{
			ProjectID:       cfg.FCMProjectID,
			CredentialsJSON: cfg.FCMCredentials,
			Timeout:         cfg.PushTimeout,
		})
		if err != nil {
			logger.Warn("FCM client not initialized, push disabled", zap.Error(err))
		} else {
			push = fcmClient
			logger.Info("FCM client initialized", zap.String("project_id", cfg.FCMProjectID))
		}
	} else {
		logger.Warn("FCM credentials absent, push sends are no-ops")
	}

	// Scheduler jobs
	checker := suppression.NewChecker(nutritionRepo, zones, logger)
	expansion := jobs.NewExpansionJob(reminderRepo, cfg, m, logger)
	dispatch := jobs.NewDispatchJob(reminderRepo, checker, b, cfg, m, logger)
	cleanup := jobs.NewCleanupJob(reminderRepo, deviceRepo, cfg, logger)
	scheduler := jobs.NewScheduler(expansion, dispatch, cleanup, cfg, logger)

	// Queue consumers
	reminderService := service.NewReminderService(reminderRepo, b, cfg, logger)
	dispatcher := notification.NewDispatcher(push, deviceRepo, zones, reminderRepo, m, logger)
	ingestWorker := workers.NewIngestWorker(b, reminderService, cfg, m, logger)
	dispatchWorker := workers.NewDispatchWorker(b, dispatcher, cfg, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 3)
	go func() { errChan <- scheduler.Start(ctx) }()
	go func() { errChan <- ingestWorker.Run(ctx) }()
	go func() { errChan <- dispatchWorker.Run(ctx) }()

	remaining := 3
	select {
	case <-sigChan:
		logger.Info("shutdown signal received, stopping")
		cancel()
	case err := <-errChan:
		remaining--
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("component stopped", zap.Error(err))
		}
		cancel()
	}

	// Wait for the other loops to observe the cancellation.
	for i := 0; i < remaining; i++ {
		if err := <-errChan; err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("component stopped", zap.Error(err))
		}
	}

	logger.Info("worker shut down")
}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

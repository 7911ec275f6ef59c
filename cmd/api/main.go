package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/broker"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/config"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/database"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/handlers"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/metrics"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/repository"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/service"
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

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Connect to the broker. Creation requests are published to the input
	// queue; without a broker those requests return 503 while reads keep
	// working.
	b, err := broker.Connect(cfg, logger)
	if err != nil {
		logger.Warn("message broker unavailable, reminder creation disabled", zap.Error(err))
		b = nil
	} else {
		defer b.Close()
	}
	var publisher service.Publisher
	if b != nil {
		publisher = b
	}

	m := metrics.New()

	// Initialize repositories
	reminderRepo := repository.NewReminderRepository(db)
	deviceRepo := repository.NewDeviceTokenRepository(db)

	// Initialize services
	reminderService := service.NewReminderService(reminderRepo, publisher, cfg, logger)
	deviceService := service.NewDeviceService(deviceRepo)

	// Set up Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := handlers.NewRouter(cfg, m,
		handlers.NewReminderHandler(reminderService),
		handlers.NewDeviceHandler(deviceService),
		handlers.NewHealthHandler(db, b.Healthy),
		logger)

	logger.Info("starting reminders API",
		zap.String("addr", cfg.Addr()),
		zap.Bool("metrics", cfg.MetricsEnabled))
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

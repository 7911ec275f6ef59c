package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/config"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/metrics"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/middleware"
)

// NewRouter assembles the gin engine with all middleware and routes.
func NewRouter(cfg *config.Config, m *metrics.Metrics, reminders *ReminderHandler, devices *DeviceHandler, health *HealthHandler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware())

	if cfg.RateLimitPerMinute > 0 {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		r.Use(middleware.RateLimitMiddleware(rateLimiter))
	}

	// Probes stay outside API-key auth so orchestrators can reach them.
	r.GET("/reminders/health", health.Health)
	if cfg.MetricsEnabled && m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := r.Group("/reminders", middleware.APIKeyAuth(cfg.APIKey))
	{
		api.POST("/", reminders.Enqueue)
		api.GET("/", reminders.List)
		api.POST("/devices", devices.Register)
		api.GET("/devices", devices.List)
		api.GET("/:id", reminders.Get)
		api.PATCH("/:id", reminders.Update)
		api.DELETE("/:id", reminders.Delete)
		api.POST("/:id/ack", reminders.Acknowledge)
	}

	return r
}

package http

import (
	"net/http"

	"github.com/ecocompare/backend/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Telemetry is implemented by the metrics registry
type Telemetry interface {
	HTTPMetrics
	Handler() http.Handler
}

// SetupRouter creates and configures the Gin router. A nil telemetry
// disables request metrics and the /metrics endpoint.
func SetupRouter(cfg *config.Config, handler *Handler, logger zerolog.Logger, telemetry Telemetry) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	// Logging and metrics wrap recovery so recovered panics are logged and counted as 500s
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	if telemetry != nil {
		router.Use(MetricsMiddleware(telemetry))
	}
	router.Use(RecoveryMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)
	if telemetry != nil {
		router.GET("/metrics", gin.WrapH(telemetry.Handler()))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		// Product endpoints
		products := v1.Group("/products")
		{
			products.GET("", handler.SearchProducts)
			products.GET("/export", handler.ExportProducts)
		}
	}

	return router
}

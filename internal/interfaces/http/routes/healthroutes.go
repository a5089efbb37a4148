package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orris-inc/plansearch/internal/interfaces/http/handlers"
)

// HealthRouteConfig holds dependencies for health routes.
type HealthRouteConfig struct {
	HealthHandler *handlers.HealthHandler
}

// SetupHealthRoutes configures liveness and store readiness endpoints.
func SetupHealthRoutes(engine *gin.Engine, cfg *HealthRouteConfig) {
	engine.GET("/health", cfg.HealthHandler.Health)
	engine.GET("/health/full", cfg.HealthHandler.FullHealth)
}

// SetupMetricsRoutes exposes the prometheus registry.
func SetupMetricsRoutes(engine *gin.Engine) {
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

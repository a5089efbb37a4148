package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/plansearch/internal/interfaces/http/handlers"
)

// SearchRouteConfig holds dependencies for search routes.
type SearchRouteConfig struct {
	SearchHandler *handlers.SearchHandler
}

// SetupSearchRoutes configures the public plan search endpoint.
func SetupSearchRoutes(engine *gin.Engine, cfg *SearchRouteConfig) {
	engine.GET("/search", cfg.SearchHandler.Search)
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/plansearch/internal/interfaces/http/middleware"
	"github.com/orris-inc/plansearch/internal/interfaces/http/routes"
	"github.com/orris-inc/plansearch/internal/shared/errors"
	"github.com/orris-inc/plansearch/internal/shared/logger"
	"github.com/orris-inc/plansearch/internal/shared/utils"
)

// Router represents the HTTP router configuration
type Router struct {
	engine *gin.Engine
	hdlrs  *allHandlers
	log    logger.Interface
}

// NewRouter creates a new HTTP router from a wired container
func NewRouter(c *Container) *Router {
	return &Router{
		engine: c.engine,
		hdlrs:  c.hdlrs,
		log:    c.log,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery())

	routes.SetupHealthRoutes(r.engine, &routes.HealthRouteConfig{
		HealthHandler: r.hdlrs.healthHandler,
	})
	routes.SetupSearchRoutes(r.engine, &routes.SearchRouteConfig{
		SearchHandler: r.hdlrs.searchHandler,
	})
	routes.SetupMetricsRoutes(r.engine)

	// unmatched requests get the same envelope as every other error
	r.engine.HandleMethodNotAllowed = true
	r.engine.NoRoute(func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusNotFound, errors.ErrorTypeNotFound, "route not found")
	})
	r.engine.NoMethod(func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusMethodNotAllowed, errors.ErrorTypeMethodNotAllowed, "method not allowed")
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

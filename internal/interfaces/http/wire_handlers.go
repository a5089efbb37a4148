package http

import (
	"github.com/orris-inc/plansearch/internal/interfaces/http/handlers"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	searchHandler *handlers.SearchHandler
	healthHandler *handlers.HealthHandler
}

func (c *Container) initHandlers() {
	c.hdlrs = &allHandlers{
		searchHandler: handlers.NewSearchHandler(c.ucs.searchPlansUC, c.cfg.Index.QueryTimeout, c.log),
		healthHandler: handlers.NewHealthHandler(c.ucs.checkStoreHealthUC, c.log),
	}
}

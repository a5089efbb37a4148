package http

import (
	availabilityUsecases "github.com/orris-inc/plansearch/internal/application/availability/usecases"
)

// allUseCases holds all use case instances used by the HTTP layer.
type allUseCases struct {
	searchPlansUC      *availabilityUsecases.SearchPlansUseCase
	checkStoreHealthUC *availabilityUsecases.CheckStoreHealthUseCase
}

func (c *Container) initUseCases() {
	c.ucs = &allUseCases{
		searchPlansUC: availabilityUsecases.NewSearchPlansUseCase(
			c.index,
			c.details,
			c.cfg.Index.MaxMatches,
			c.log.Named("search"),
		),
		checkStoreHealthUC: availabilityUsecases.NewCheckStoreHealthUseCase(c.pinger, c.log),
	}
}

package handlers

import (
	"context"

	"github.com/orris-inc/plansearch/internal/application/availability/dto"
	"github.com/orris-inc/plansearch/internal/application/availability/usecases"
)

// Use case interfaces for SearchHandler and HealthHandler

type searchPlansUseCase interface {
	Execute(ctx context.Context, query usecases.SearchPlansQuery) (*dto.SearchResultDTO, error)
}

type checkStoreHealthUseCase interface {
	Execute(ctx context.Context) error
}

package usecases

import (
	"context"

	availabilityUsecases "github.com/orris-inc/plansearch/internal/application/availability/usecases"
	"github.com/orris-inc/plansearch/internal/domain/catalog"
)

// FeedFetcher downloads the raw feed of a provider.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// PlanIndexer writes one persisted plan to the availability index.
type PlanIndexer interface {
	Execute(ctx context.Context, cmd availabilityUsecases.IndexPlanCommand) (bool, error)
}

// ProviderSyncer synchronizes one provider.
type ProviderSyncer interface {
	Execute(ctx context.Context, provider *catalog.Provider) (*SyncReport, error)
}

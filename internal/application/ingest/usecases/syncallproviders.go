package usecases

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/orris-inc/plansearch/internal/domain/catalog"
	"github.com/orris-inc/plansearch/internal/shared/goroutine"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

// SyncAllResult holds the per-provider outcome of one ingestion round.
type SyncAllResult struct {
	Providers int
	Failed    int
	// Reports is keyed by provider id; failed providers have no entry.
	Reports map[string]*SyncReport
}

type SyncAllProvidersUseCase struct {
	repo        catalog.Repository
	syncer      ProviderSyncer
	concurrency int
	logger      logger.Interface
}

func NewSyncAllProvidersUseCase(
	repo catalog.Repository,
	syncer ProviderSyncer,
	concurrency int,
	logger logger.Interface,
) *SyncAllProvidersUseCase {
	return &SyncAllProvidersUseCase{
		repo:        repo,
		syncer:      syncer,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Execute syncs every active provider concurrently. One provider failing or
// panicking never affects the others; only listing the providers can fail.
func (uc *SyncAllProvidersUseCase) Execute(ctx context.Context) (*SyncAllResult, error) {
	providers, err := uc.repo.ListActiveProviders(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list active providers", "error", err)
		return nil, err
	}

	result := &SyncAllResult{
		Providers: len(providers),
		Reports:   make(map[string]*SyncReport, len(providers)),
	}
	if len(providers) == 0 {
		uc.logger.Infow("no active providers to synchronize")
		return result, nil
	}

	limit := uc.concurrency
	if limit <= 0 {
		limit = 1
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(limit)
	for _, p := range providers {
		provider := p
		g.Go(func() error {
			var panicked bool
			defer func() {
				if panicked {
					mu.Lock()
					result.Failed++
					mu.Unlock()
				}
			}()
			defer goroutine.Recover(uc.logger, "sync-provider-"+provider.Name, &panicked)

			report, err := uc.syncer.Execute(ctx, provider)

			mu.Lock()
			defer mu.Unlock()
			if err != nil || report == nil {
				result.Failed++
				return nil
			}
			result.Reports[provider.ID.String()] = report
			return nil
		})
	}
	// provider failures are counted, never returned
	_ = g.Wait()

	uc.logger.Infow("ingestion round finished",
		"providers", result.Providers,
		"failed", result.Failed,
	)
	return result, nil
}

package usecases

import (
	"context"
	"fmt"
	"time"

	availabilityUsecases "github.com/orris-inc/plansearch/internal/application/availability/usecases"
	"github.com/orris-inc/plansearch/internal/domain/catalog"
	"github.com/orris-inc/plansearch/internal/infrastructure/feed"
	"github.com/orris-inc/plansearch/internal/infrastructure/metrics"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

// SyncReport counts what one provider sync did.
type SyncReport struct {
	BasePlans int `json:"base_plans"`
	Plans     int `json:"plans"`
	Indexed   int `json:"indexed"`
	// Skipped counts persisted plans that are not publicly listed.
	Skipped int `json:"skipped"`
	// Dropped counts feed elements that could not be mapped.
	Dropped         int `json:"dropped"`
	PersistFailures int `json:"persist_failures"`
	IndexFailures   int `json:"index_failures"`
}

type SyncProviderUseCase struct {
	fetcher FeedFetcher
	repo    catalog.Repository
	indexer PlanIndexer
	logger  logger.Interface
}

func NewSyncProviderUseCase(
	fetcher FeedFetcher,
	repo catalog.Repository,
	indexer PlanIndexer,
	logger logger.Interface,
) *SyncProviderUseCase {
	return &SyncProviderUseCase{
		fetcher: fetcher,
		repo:    repo,
		indexer: indexer,
		logger:  logger,
	}
}

// Execute fetches the provider feed, persists every base plan and indexes the
// plans of online base plans. A failing base plan or plan is counted and the
// sync moves on; only a feed that cannot be fetched or decoded fails the run.
func (uc *SyncProviderUseCase) Execute(ctx context.Context, provider *catalog.Provider) (*SyncReport, error) {
	log := uc.logger.With("provider_id", provider.ID, "provider", provider.Name)
	started := time.Now()

	body, err := uc.fetcher.Fetch(ctx, provider.URL)
	if err != nil {
		metrics.IngestRunsTotal.WithLabelValues(metrics.StatusUnavailable).Inc()
		log.Warnw("failed to fetch provider feed", "url", provider.URL, "error", err)
		return nil, fmt.Errorf("fetch feed of provider %s: %w", provider.ID, err)
	}

	list, err := feed.Decode(body)
	if err != nil {
		metrics.IngestRunsTotal.WithLabelValues(metrics.StatusInvalid).Inc()
		log.Warnw("provider feed is not valid", "error", err)
		return nil, fmt.Errorf("decode feed of provider %s: %w", provider.ID, err)
	}

	basePlans, mappingErrs := feed.ToCatalog(provider.ID, list)
	for _, mErr := range mappingErrs {
		log.Warnw("feed element dropped", "error", mErr)
	}

	report := &SyncReport{Dropped: len(mappingErrs)}
	for _, bp := range basePlans {
		if err := ctx.Err(); err != nil {
			metrics.IngestRunsTotal.WithLabelValues(metrics.StatusError).Inc()
			return report, err
		}
		uc.syncBasePlan(ctx, log, bp, report)
	}

	status := metrics.StatusOK
	if report.PersistFailures > 0 || report.IndexFailures > 0 {
		status = metrics.StatusError
	}
	metrics.IngestRunsTotal.WithLabelValues(status).Inc()

	log.Infow("provider synchronized",
		"base_plans", report.BasePlans,
		"plans", report.Plans,
		"indexed", report.Indexed,
		"skipped", report.Skipped,
		"dropped", report.Dropped,
		"persist_failures", report.PersistFailures,
		"index_failures", report.IndexFailures,
		"duration", time.Since(started),
	)
	return report, nil
}

func (uc *SyncProviderUseCase) syncBasePlan(ctx context.Context, log logger.Interface, bp *catalog.BasePlan, report *SyncReport) {
	persisted, err := uc.repo.PersistBasePlan(ctx, bp)
	if err != nil {
		report.PersistFailures++
		log.Errorw("failed to persist base plan, skipping it", "base_plan_id", bp.ExternalID, "error", err)
		return
	}
	report.BasePlans++
	report.Plans += len(persisted.Plans)

	for _, plan := range persisted.Plans {
		indexed, err := uc.indexer.Execute(ctx, availabilityUsecases.IndexPlanCommand{
			BasePlan: persisted,
			Plan:     plan,
		})
		switch {
		case err != nil:
			report.IndexFailures++
		case indexed:
			report.Indexed++
		default:
			report.Skipped++
		}
	}
}

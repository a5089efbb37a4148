package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	availabilityUsecases "github.com/orris-inc/plansearch/internal/application/availability/usecases"
	ingestUsecases "github.com/orris-inc/plansearch/internal/application/ingest/usecases"
	"github.com/orris-inc/plansearch/internal/infrastructure/cache"
	"github.com/orris-inc/plansearch/internal/infrastructure/config"
	"github.com/orris-inc/plansearch/internal/infrastructure/database"
	"github.com/orris-inc/plansearch/internal/infrastructure/feed"
	"github.com/orris-inc/plansearch/internal/infrastructure/migration"
	"github.com/orris-inc/plansearch/internal/infrastructure/repository"
	"github.com/orris-inc/plansearch/internal/infrastructure/scheduler"
	"github.com/orris-inc/plansearch/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/plansearch/internal/shared/logger"
	"github.com/orris-inc/plansearch/internal/shared/version"
)

var (
	flags       bootstrap.Flags
	once        bool
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Start the ingestion worker",
		Long: `Poll every active provider feed, persist what it publishes and index the
online plans. Expired index entries are swept on their own schedule.`,
		RunE: run,
	}

	flags.Bind(cmd)
	cmd.Flags().BoolVar(&once, "once", false, "Run one ingestion round and one sweep, then exit")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending database migrations before starting")

	return cmd
}

// jobs are the two use cases the worker schedules.
type jobs struct {
	syncAll   *ingestUsecases.SyncAllProvidersUseCase
	reconcile *availabilityUsecases.ReconcileIndexUseCase
}

func newJobs(cfg *config.Config, redisClient *redis.Client, log logger.Interface) *jobs {
	index := cache.NewIntervalIndex(redisClient)
	details := cache.NewDetailCache(redisClient, cfg.Index.DetailTTL)
	repo := repository.NewCatalogRepository(database.Get(), log.Named("repository"))

	fetcher := feed.NewClient(feed.ClientOptions{
		Timeout:    cfg.Ingest.FetchTimeout,
		RetryCount: cfg.Ingest.RetryCount,
		UserAgent:  "plansearch-worker/" + version.Version,
	}, log.Named("feed"))

	indexer := availabilityUsecases.NewIndexPlanUseCase(index, details, cfg.Index.DetailTTL, log.Named("index"))
	syncer := ingestUsecases.NewSyncProviderUseCase(fetcher, repo, indexer, log.Named("ingest"))

	return &jobs{
		syncAll:   ingestUsecases.NewSyncAllProvidersUseCase(repo, syncer, cfg.Ingest.Concurrency, log.Named("ingest")),
		reconcile: availabilityUsecases.NewReconcileIndexUseCase(index, details, cfg.Index.SweepBatch, log.Named("sweep")),
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Init(&flags)
	if err != nil {
		return err
	}
	defer logger.Sync()

	log.Infow("starting ingestion worker",
		"environment", flags.Env,
		"version", version.String(),
		"once", once)

	if err := database.Init(&cfg.Database); err != nil {
		log.Errorw("failed to initialize database", "error", err)
		return err
	}
	defer database.Close()

	if autoMigrate {
		manager, err := migration.NewManager(cfg.Database.Driver, false)
		if err != nil {
			return err
		}
		if err := manager.Migrate(database.Get()); err != nil {
			return err
		}
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout+time.Second)
	redisClient, err := cache.NewRedisClient(connectCtx, &cfg.Redis)
	cancelConnect()
	if err != nil {
		log.Errorw("failed to connect to redis", "error", err)
		return err
	}
	defer redisClient.Close()
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	j := newJobs(cfg, redisClient, log)

	if once {
		return runOnce(cmd.Context(), j, cfg, cmd)
	}

	manager, err := scheduler.NewSchedulerManager(log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := manager.RegisterIngestJob(scheduler.BatchJobFunc(j.ingest), cfg.Ingest.Interval); err != nil {
		return fmt.Errorf("failed to register ingest job: %w", err)
	}
	if err := manager.RegisterSweepJob(scheduler.BatchJobFunc(j.sweep), cfg.Index.SweepInterval); err != nil {
		return fmt.Errorf("failed to register sweep job: %w", err)
	}

	manager.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infow("received signal, shutting down", "signal", sig.String())

	if err := manager.Stop(); err != nil {
		return err
	}
	log.Infow("ingestion worker stopped")
	return nil
}

// ingest returns the number of providers synchronized without error.
func (j *jobs) ingest(ctx context.Context) (int, error) {
	result, err := j.syncAll.Execute(ctx)
	if err != nil {
		return 0, err
	}
	return result.Providers - result.Failed, nil
}

// sweep returns the number of index entries removed.
func (j *jobs) sweep(ctx context.Context) (int, error) {
	result, err := j.reconcile.Execute(ctx)
	if err != nil {
		return 0, err
	}
	return result.Removed, nil
}

func runOnce(ctx context.Context, j *jobs, cfg *config.Config, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Ingest.Interval)
	defer cancel()

	result, err := j.syncAll.Execute(ctx)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nIngestion:\n")
	fmt.Fprintf(out, "  Providers: %d\n", result.Providers)
	fmt.Fprintf(out, "  Failed:    %d\n", result.Failed)
	for id, r := range result.Reports {
		fmt.Fprintf(out, "  %s  base_plans=%d plans=%d indexed=%d skipped=%d dropped=%d persist_failures=%d index_failures=%d\n",
			id, r.BasePlans, r.Plans, r.Indexed, r.Skipped, r.Dropped, r.PersistFailures, r.IndexFailures)
	}

	swept, err := j.reconcile.Execute(ctx)
	if err != nil {
		return fmt.Errorf("index sweep failed: %w", err)
	}
	fmt.Fprintf(out, "\nIndex sweep:\n")
	fmt.Fprintf(out, "  Scanned: %d\n", swept.Scanned)
	fmt.Fprintf(out, "  Removed: %d\n", swept.Removed)

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d providers failed", result.Failed, result.Providers)
	}
	return nil
}

package index

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	availabilityUsecases "github.com/orris-inc/plansearch/internal/application/availability/usecases"
	"github.com/orris-inc/plansearch/internal/domain/availability"
	"github.com/orris-inc/plansearch/internal/infrastructure/cache"
	"github.com/orris-inc/plansearch/internal/infrastructure/config"
	"github.com/orris-inc/plansearch/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/plansearch/internal/shared/biztime"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

var (
	flags  bootstrap.Flags
	member string
	limit  int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect and maintain the plan index",
		Long:  `Operator tools for the redis interval index: run a sweep by hand or look at what is stored.`,
	}

	flags.Bind(cmd)

	cmd.AddCommand(
		newSweepCommand(),
		newInspectCommand(),
	)

	return cmd
}

func newSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove index entries whose detail has expired",
		RunE:  runSweep,
	}
}

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show index size, sample detail keys or a single member",
		RunE:  runInspect,
	}

	cmd.Flags().StringVar(&member, "member", "", "Show scores and detail ttl of one member ({tenant}:{base}:{leaf})")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of detail keys to list")

	return cmd
}

func initEnv(ctx context.Context) (*config.Config, logger.Interface, *redis.Client, error) {
	cfg, log, err := bootstrap.Init(&flags)
	if err != nil {
		return nil, nil, nil, err
	}

	client, err := cache.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return cfg, log, client, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log, client, err := initEnv(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer client.Close()

	uc := availabilityUsecases.NewReconcileIndexUseCase(
		cache.NewIntervalIndex(client),
		cache.NewDetailCache(client, cfg.Index.DetailTTL),
		cfg.Index.SweepBatch,
		log.Named("sweep"),
	)
	result, err := uc.Execute(ctx)
	if err != nil {
		return fmt.Errorf("index sweep failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, removed %d\n", result.Scanned, result.Removed)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, _, client, err := initEnv(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer client.Close()

	idx := cache.NewIntervalIndex(client)
	details := cache.NewDetailCache(client, cfg.Index.DetailTTL)
	out := cmd.OutOrStdout()

	if member != "" {
		return inspectMember(ctx, cmd, idx, details, member)
	}

	starts, ends, err := idx.Cardinality(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nIndex:\n")
	fmt.Fprintf(out, "  %s: %d\n", availability.StartSetKey, starts)
	fmt.Fprintf(out, "  %s:   %d\n", availability.EndSetKey, ends)

	keys, err := details.Keys(ctx, "", limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nDetail keys (up to %d):\n", limit)
	for _, k := range keys {
		fmt.Fprintf(out, "  %s\n", k)
	}
	return nil
}

func inspectMember(ctx context.Context, cmd *cobra.Command, idx *cache.IntervalIndex, details *cache.DetailCache, m string) error {
	key, err := availability.ParseMember(m)
	if err != nil {
		return err
	}

	iv, err := idx.Scores(ctx, m)
	if err != nil {
		return err
	}
	ttl, err := details.TTL(ctx, key)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMember %s:\n", m)
	if iv.HasStart {
		fmt.Fprintf(out, "  start: %d (%s)\n", iv.Start, biztime.FormatNaive(biztime.FromEpoch(iv.Start)))
	} else {
		fmt.Fprintf(out, "  start: missing\n")
	}
	if iv.HasEnd {
		fmt.Fprintf(out, "  end:   %d (%s)\n", iv.End, biztime.FormatNaive(biztime.FromEpoch(iv.End)))
	} else {
		fmt.Fprintf(out, "  end:   missing\n")
	}
	if ttl < 0 {
		fmt.Fprintf(out, "  detail: missing\n")
	} else {
		fmt.Fprintf(out, "  detail: expires in %s\n", ttl)
	}
	return nil
}

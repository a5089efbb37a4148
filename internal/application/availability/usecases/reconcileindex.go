package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/plansearch/internal/infrastructure/metrics"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

const defaultSweepBatch = 200

type ReconcileIndexResult struct {
	Scanned int
	Removed int
}

// ReconcileIndexUseCase removes index members whose detail record has expired.
// Queries skip such ghosts on their own; the sweep keeps them from piling up.
type ReconcileIndexUseCase struct {
	index   IntervalIndex
	details DetailStore
	batch   int64
	logger  logger.Interface
}

func NewReconcileIndexUseCase(
	index IntervalIndex,
	details DetailStore,
	batch int64,
	logger logger.Interface,
) *ReconcileIndexUseCase {
	if batch <= 0 {
		batch = defaultSweepBatch
	}
	return &ReconcileIndexUseCase{
		index:   index,
		details: details,
		batch:   batch,
		logger:  logger,
	}
}

func (uc *ReconcileIndexUseCase) Execute(ctx context.Context) (*ReconcileIndexResult, error) {
	result := &ReconcileIndexResult{}
	var cursor uint64

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		members, next, err := uc.index.Scan(ctx, cursor, uc.batch)
		if err != nil {
			return result, fmt.Errorf("failed to scan plan index: %w", err)
		}
		result.Scanned += len(members)

		if len(members) > 0 {
			removed, err := uc.sweepPage(ctx, members)
			if err != nil {
				return result, err
			}
			result.Removed += removed
		}

		if next == 0 {
			break
		}
		cursor = next
	}

	uc.logger.Infow("plan index reconciled", "scanned", result.Scanned, "removed", result.Removed)
	return result, nil
}

func (uc *ReconcileIndexUseCase) sweepPage(ctx context.Context, members []string) (int, error) {
	present, err := uc.details.Exists(ctx, members)
	if err != nil {
		return 0, fmt.Errorf("failed to check plan details: %w", err)
	}

	candidates := make([]string, 0)
	for _, m := range members {
		if !present[m] {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	// re-checked by the store: a detail written since Exists keeps its member
	removed, err := uc.index.RemoveOrphans(ctx, candidates...)
	if err != nil {
		return 0, fmt.Errorf("failed to remove ghost members: %w", err)
	}
	if kept := len(candidates) - removed; kept > 0 {
		uc.logger.Debugw("ghost candidates gained a detail before removal", "count", kept)
	}
	metrics.IndexSweptTotal.Add(float64(removed))
	uc.logger.Debugw("removed ghost index members", "count", removed)
	return removed, nil
}

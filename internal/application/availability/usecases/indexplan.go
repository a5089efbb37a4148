package usecases

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/orris-inc/plansearch/internal/domain/availability"
	"github.com/orris-inc/plansearch/internal/domain/catalog"
	"github.com/orris-inc/plansearch/internal/infrastructure/metrics"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

// IndexPlanCommand carries one persisted plan and the base plan it belongs to.
// Both must be the canonical entities returned by the catalog repository.
type IndexPlanCommand struct {
	BasePlan *catalog.BasePlan
	Plan     *catalog.Plan
}

type IndexPlanUseCase struct {
	index     IntervalIndex
	details   DetailStore
	detailTTL time.Duration
	logger    logger.Interface
}

func NewIndexPlanUseCase(
	index IntervalIndex,
	details DetailStore,
	detailTTL time.Duration,
	logger logger.Interface,
) *IndexPlanUseCase {
	return &IndexPlanUseCase{
		index:     index,
		details:   details,
		detailTTL: detailTTL,
		logger:    logger,
	}
}

// Execute writes the interval and the detail record of a plan. It returns
// false without touching the store when the base plan is not publicly listed.
// Any store failure is returned as *availability.IndexWriteError.
func (uc *IndexPlanUseCase) Execute(ctx context.Context, cmd IndexPlanCommand) (bool, error) {
	if !cmd.BasePlan.Indexable() {
		uc.logger.Debugw("plan not indexed, base plan is not online",
			"base_plan_id", cmd.BasePlan.ExternalID,
			"plan_id", cmd.Plan.ExternalID,
			"sell_mode", cmd.BasePlan.SellMode,
		)
		return false, nil
	}

	detail := NewPlanDetail(cmd.BasePlan, cmd.Plan)
	key := detail.Key()
	if err := key.Validate(); err != nil {
		metrics.IndexWritesTotal.WithLabelValues(metrics.StatusInvalid).Inc()
		uc.logger.Warnw("plan has an unindexable key", "key", key.Member(), "error", err)
		return false, &availability.IndexWriteError{Key: key, Op: "validate", Err: err}
	}

	// The detail goes first so the sweep never sees a fresh member without
	// one. Both writes are attempted; neither rolls back the other.
	putErr := uc.details.Put(ctx, detail, uc.detailTTL)
	recordErr := uc.index.Record(ctx, key, detail.StartEpoch, detail.EndEpoch)

	if err := errors.Join(recordErr, putErr); err != nil {
		op := "record"
		switch {
		case recordErr != nil && putErr != nil:
			op = "record+put"
		case putErr != nil:
			op = "put"
		}
		metrics.IndexWritesTotal.WithLabelValues(metrics.StatusError).Inc()
		uc.logger.Errorw("failed to index plan", "key", key.Member(), "op", op, "error", err)
		return false, &availability.IndexWriteError{Key: key, Op: op, Err: err}
	}

	metrics.IndexWritesTotal.WithLabelValues(metrics.StatusOK).Inc()
	uc.logger.Debugw("plan indexed", "key", key.Member(), "start", detail.StartEpoch, "end", detail.EndEpoch)
	return true, nil
}

// NewPlanDetail builds the detail record of a plan. The tenant is the provider
// id and the base and leaf ids are the provider's own identifiers.
func NewPlanDetail(bp *catalog.BasePlan, plan *catalog.Plan) *availability.PlanDetail {
	d := &availability.PlanDetail{
		Version:            availability.DetailSchemaVersion,
		ProviderID:         bp.ProviderID.String(),
		BasePlanID:         bp.ExternalID,
		PlanID:             plan.ExternalID,
		Title:              bp.Title,
		SellMode:           bp.SellMode.String(),
		OrganizerCompanyID: bp.OrganizerCompanyID,
		StartEpoch:         plan.StartsAt.Unix(),
		EndEpoch:           plan.EndsAt.Unix(),
		SoldOut:            plan.SoldOut,
		Zones:              make([]availability.ZoneDetail, 0, len(plan.Zones)),
	}
	if !plan.SellFrom.IsZero() {
		d.SellFromEpoch = plan.SellFrom.Unix()
	}
	if !plan.SellTo.IsZero() {
		d.SellToEpoch = plan.SellTo.Unix()
	}

	for _, z := range plan.Zones {
		d.Zones = append(d.Zones, availability.ZoneDetail{
			ZoneID:   z.ExternalID,
			Name:     z.Name,
			Capacity: z.Capacity,
			Price:    finitePrice(z.Price),
			Numbered: z.Numbered,
		})
	}
	return d
}

// finitePrice drops prices JSON cannot carry.
func finitePrice(p *float64) *float64 {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return nil
	}
	v := *p
	return &v
}

package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/orris-inc/plansearch/internal/application/availability/dto"
	"github.com/orris-inc/plansearch/internal/domain/availability"
	"github.com/orris-inc/plansearch/internal/infrastructure/cache"
	"github.com/orris-inc/plansearch/internal/infrastructure/metrics"
	apperrors "github.com/orris-inc/plansearch/internal/shared/errors"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

// DefaultMaxMatches bounds detail fan-out when no ceiling is configured.
const DefaultMaxMatches = 500

type SearchPlansQuery struct {
	From time.Time
	To   time.Time
}

type SearchPlansUseCase struct {
	index      IntervalIndex
	details    DetailStore
	maxMatches int
	logger     logger.Interface
}

func NewSearchPlansUseCase(
	index IntervalIndex,
	details DetailStore,
	maxMatches int,
	logger logger.Interface,
) *SearchPlansUseCase {
	if maxMatches <= 0 {
		maxMatches = DefaultMaxMatches
	}
	return &SearchPlansUseCase{
		index:      index,
		details:    details,
		maxMatches: maxMatches,
		logger:     logger,
	}
}

// Execute returns every indexed plan that lies inside the window, grouped by
// base plan in the order the groups first appear by start time. There is one
// event per plan. Matches beyond the ceiling are dropped from the latest
// starts and the result is flagged as truncated.
func (uc *SearchPlansUseCase) Execute(ctx context.Context, query SearchPlansQuery) (result *dto.SearchResultDTO, err error) {
	started := time.Now()
	defer func() {
		metrics.SearchDurationSeconds.Observe(time.Since(started).Seconds())
		metrics.SearchRequestsTotal.WithLabelValues(searchStatus(err)).Inc()
	}()

	window, err := availability.NewWindow(query.From, query.To)
	if err != nil {
		return nil, apperrors.NewValidationError("starts_at must be before ends_at", err.Error())
	}

	members, err := uc.index.QueryOverlap(ctx, window.From, window.To)
	if err != nil {
		uc.logger.Errorw("failed to query plan index", "from", window.From, "to", window.To, "error", err)
		return nil, storeFailure(err)
	}
	metrics.SearchMatches.Observe(float64(len(members)))

	result = &dto.SearchResultDTO{Events: []dto.EventDTO{}}
	if len(members) == 0 {
		return result, nil
	}

	if len(members) > uc.maxMatches {
		uc.logger.Warnw("search matches exceed ceiling, truncating",
			"matches", len(members),
			"ceiling", uc.maxMatches,
			"from", window.From,
			"to", window.To,
		)
		metrics.SearchTruncatedTotal.Inc()
		members = members[:uc.maxMatches]
		result.Truncated = true
	}

	valid := make([]string, 0, len(members))
	for _, m := range members {
		if _, err := availability.ParseMember(m); err != nil {
			metrics.DetailMissesTotal.WithLabelValues(metrics.MissReasonKey).Inc()
			uc.logger.Warnw("skipping unparseable index member", "member", m, "error", err)
			continue
		}
		valid = append(valid, m)
	}

	lookups, err := uc.details.GetMany(ctx, valid)
	if err != nil {
		uc.logger.Errorw("failed to read plan details", "count", len(valid), "error", err)
		return nil, storeFailure(err)
	}

	result.Events = uc.groupByBasePlan(window, lookups)
	return result, nil
}

// groupByBasePlan keeps start order inside each base plan and orders the base
// plans by their earliest matching plan.
func (uc *SearchPlansUseCase) groupByBasePlan(window availability.Window, lookups []cache.Lookup) []dto.EventDTO {
	var (
		order  []string
		groups = make(map[string][]dto.EventDTO)
		total  int
	)

	for _, l := range lookups {
		if l.Err != nil {
			uc.logDetailMiss(l.Member, l.Err)
			continue
		}
		d := l.Detail
		if !window.Contains(d.StartEpoch, d.EndEpoch) {
			metrics.DetailMissesTotal.WithLabelValues(metrics.MissReasonStale).Inc()
			uc.logger.Warnw("skipping plan whose detail no longer matches its index scores",
				"member", l.Member, "start", d.StartEpoch, "end", d.EndEpoch)
			continue
		}

		gk := d.ProviderID + "/" + d.BasePlanID
		if _, ok := groups[gk]; !ok {
			order = append(order, gk)
		}
		groups[gk] = append(groups[gk], dto.ToEventDTO(d))
		total++
	}

	events := make([]dto.EventDTO, 0, total)
	for _, gk := range order {
		events = append(events, groups[gk]...)
	}
	return events
}

func (uc *SearchPlansUseCase) logDetailMiss(member string, err error) {
	if errors.Is(err, availability.ErrDetailNotFound) {
		metrics.DetailMissesTotal.WithLabelValues(metrics.MissReasonNotFound).Inc()
		uc.logger.Infow("skipping index member without detail", "member", member)
		return
	}
	metrics.DetailMissesTotal.WithLabelValues(metrics.MissReasonDecode).Inc()
	uc.logger.Warnw("skipping index member with undecodable detail", "member", member, "error", err)
}

func storeFailure(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, availability.ErrStoreUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewServiceUnavailableError("plan index is unavailable", err.Error())
	}
	return apperrors.NewInternalError("search failed", err.Error())
}

func searchStatus(err error) string {
	switch {
	case err == nil:
		return metrics.StatusOK
	case apperrors.IsValidationError(err):
		return metrics.StatusInvalid
	case apperrors.IsServiceUnavailableError(err):
		return metrics.StatusUnavailable
	default:
		return metrics.StatusError
	}
}

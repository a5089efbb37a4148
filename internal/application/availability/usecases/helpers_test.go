package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/plansearch/internal/domain/availability"
	"github.com/orris-inc/plansearch/internal/domain/catalog"
	"github.com/orris-inc/plansearch/internal/infrastructure/cache"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

var (
	testProviderID = uuid.MustParse("7d3c3b5e-8f0a-4c5e-9b7e-2f0d6a1c9e11")
	day0           = time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
)

type testStore struct {
	mr      *miniredis.Miniredis
	index   *cache.IntervalIndex
	details *cache.DetailCache
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return &testStore{
		mr:      mr,
		index:   cache.NewIntervalIndex(client),
		details: cache.NewDetailCache(client, time.Hour),
	}
}

func (s *testStore) indexer() *IndexPlanUseCase {
	return NewIndexPlanUseCase(s.index, s.details, time.Hour, logger.NewNopLogger())
}

func newBasePlan(externalID string, mode catalog.SellMode) *catalog.BasePlan {
	return &catalog.BasePlan{
		ID:         uuid.New(),
		ProviderID: testProviderID,
		ExternalID: externalID,
		Title:      fmt.Sprintf("Base plan %s", externalID),
		SellMode:   mode,
	}
}

func newPlan(externalID string, startsAt time.Time, length time.Duration, prices ...float64) *catalog.Plan {
	p := &catalog.Plan{
		ID:         uuid.New(),
		ExternalID: externalID,
		StartsAt:   startsAt,
		EndsAt:     startsAt.Add(length),
	}
	for i, price := range prices {
		v := price
		p.Zones = append(p.Zones, &catalog.Zone{
			ID:         uuid.New(),
			ExternalID: fmt.Sprintf("%d", i+1),
			Name:       fmt.Sprintf("Zone %d", i+1),
			Capacity:   100,
			Price:      &v,
		})
	}
	return p
}

func mustIndex(t *testing.T, uc *IndexPlanUseCase, bp *catalog.BasePlan, p *catalog.Plan) {
	t.Helper()
	indexed, err := uc.Execute(context.Background(), IndexPlanCommand{BasePlan: bp, Plan: p})
	require.NoError(t, err)
	require.True(t, indexed)
}

type mockIntervalIndex struct {
	mock.Mock
}

func (m *mockIntervalIndex) Record(ctx context.Context, key availability.EntryKey, startEpoch, endEpoch int64) error {
	args := m.Called(ctx, key, startEpoch, endEpoch)
	return args.Error(0)
}

func (m *mockIntervalIndex) QueryOverlap(ctx context.Context, fromEpoch, toEpoch int64) ([]string, error) {
	args := m.Called(ctx, fromEpoch, toEpoch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockIntervalIndex) RemoveOrphans(ctx context.Context, members ...string) (int, error) {
	args := m.Called(ctx, members)
	return args.Int(0), args.Error(1)
}

func (m *mockIntervalIndex) Scan(ctx context.Context, cursor uint64, count int64) ([]string, uint64, error) {
	args := m.Called(ctx, cursor, count)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]string), args.Get(1).(uint64), args.Error(2)
}

type mockDetailStore struct {
	mock.Mock
}

func (m *mockDetailStore) Put(ctx context.Context, detail *availability.PlanDetail, ttl time.Duration) error {
	args := m.Called(ctx, detail, ttl)
	return args.Error(0)
}

func (m *mockDetailStore) GetMany(ctx context.Context, members []string) ([]cache.Lookup, error) {
	args := m.Called(ctx, members)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cache.Lookup), args.Error(1)
}

func (m *mockDetailStore) Exists(ctx context.Context, members []string) (map[string]bool, error) {
	args := m.Called(ctx, members)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

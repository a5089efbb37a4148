package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	availabilityUsecases "github.com/orris-inc/plansearch/internal/application/availability/usecases"
	"github.com/orris-inc/plansearch/internal/domain/catalog"
	"github.com/orris-inc/plansearch/internal/infrastructure/cache"
	"github.com/orris-inc/plansearch/internal/infrastructure/persistence/models"
	"github.com/orris-inc/plansearch/internal/infrastructure/repository"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<planList version="1.0">
   <output>
      <base_plan base_plan_id="291" sell_mode="online" title="Camela en concierto">
         <plan plan_start_date="2021-06-30T21:00:00" plan_end_date="2021-06-30T22:00:00" plan_id="291" sell_from="2020-07-01T00:00:00" sell_to="2021-06-30T20:00:00" sold_out="false">
            <zone zone_id="40" capacity="243" price="20.00" name="Platea" numbered="true"/>
            <zone zone_id="38" capacity="100" price="15.00" name="Grada 2" numbered="false"/>
         </plan>
         <plan plan_start_date="2021-07-01T21:00:00" plan_end_date="2021-07-01T22:00:00" plan_id="292" sold_out="true">
            <zone zone_id="40" capacity="243" price="25.00" name="Platea" numbered="true"/>
         </plan>
         <plan plan_start_date="not a date" plan_end_date="2021-07-01T22:00:00" plan_id="293"/>
      </base_plan>
      <base_plan base_plan_id="322" sell_mode="offline" organizer_company_id="2" title="Pantomima Full">
         <plan plan_start_date="2021-02-10T20:00:22" plan_end_date="2021-02-10T21:00:00" plan_id="1642" sold_out="false">
            <zone zone_id="311" capacity="2" price="55.00" name="A28" numbered="true"/>
         </plan>
      </base_plan>
   </output>
</planList>`

type testEnv struct {
	db      *gorm.DB
	mr      *miniredis.Miniredis
	repo    catalog.Repository
	index   *cache.IntervalIndex
	details *cache.DetailCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.ProviderModel{}, &models.BasePlanModel{}, &models.PlanModel{}, &models.ZoneModel{}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	return &testEnv{
		db:      db,
		mr:      mr,
		repo:    repository.NewCatalogRepository(db, logger.NewNopLogger()),
		index:   cache.NewIntervalIndex(client),
		details: cache.NewDetailCache(client, time.Hour),
	}
}

func (e *testEnv) syncer(fetcher FeedFetcher) *SyncProviderUseCase {
	indexer := availabilityUsecases.NewIndexPlanUseCase(e.index, e.details, time.Hour, logger.NewNopLogger())
	return NewSyncProviderUseCase(fetcher, e.repo, indexer, logger.NewNopLogger())
}

func (e *testEnv) provider(t *testing.T, name string) *catalog.Provider {
	t.Helper()
	p, err := catalog.NewProvider(name, "https://feeds.example.com/"+name+".xml", "")
	require.NoError(t, err)
	require.NoError(t, e.repo.CreateProvider(context.Background(), p))
	return p
}

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateProvider(ctx context.Context, provider *catalog.Provider) error {
	return m.Called(ctx, provider).Error(0)
}

func (m *mockRepository) GetProvider(ctx context.Context, id uuid.UUID) (*catalog.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Provider), args.Error(1)
}

func (m *mockRepository) ListProviders(ctx context.Context) ([]*catalog.Provider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Provider), args.Error(1)
}

func (m *mockRepository) ListActiveProviders(ctx context.Context) ([]*catalog.Provider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Provider), args.Error(1)
}

func (m *mockRepository) SetProviderActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *mockRepository) PersistBasePlan(ctx context.Context, basePlan *catalog.BasePlan) (*catalog.BasePlan, error) {
	args := m.Called(ctx, basePlan)
	if fn, ok := args.Get(0).(func(context.Context, *catalog.BasePlan) *catalog.BasePlan); ok {
		return fn(ctx, basePlan), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.BasePlan), args.Error(1)
}

type mockSyncer struct {
	mock.Mock
}

func (m *mockSyncer) Execute(ctx context.Context, provider *catalog.Provider) (*SyncReport, error) {
	args := m.Called(ctx, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SyncReport), args.Error(1)
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orris-inc/plansearch/internal/domain/catalog"
	"github.com/orris-inc/plansearch/internal/infrastructure/persistence/models"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(&models.ProviderModel{}, &models.BasePlanModel{}, &models.PlanModel{}, &models.ZoneModel{})
	require.NoError(t, err)

	return db
}

func createTestProvider(t *testing.T, repo catalog.Repository, name string) *catalog.Provider {
	p, err := catalog.NewProvider(name, "https://feeds.example.com/"+name+".xml", "")
	require.NoError(t, err)
	require.NoError(t, repo.CreateProvider(context.Background(), p))
	return p
}

func price(v float64) *float64 { return &v }

func testBasePlan(providerID uuid.UUID) *catalog.BasePlan {
	start := time.Date(2021, 6, 30, 21, 0, 0, 0, time.UTC)
	return &catalog.BasePlan{
		ProviderID: providerID,
		ExternalID: "291",
		Title:      "Camela en concierto",
		SellMode:   catalog.SellModeOnline,
		Plans: []*catalog.Plan{
			{
				ExternalID: "291",
				StartsAt:   start,
				EndsAt:     start.Add(90 * time.Minute),
				SellFrom:   start.Add(-30 * 24 * time.Hour),
				Zones: []*catalog.Zone{
					{ExternalID: "40", Name: "Platea", Capacity: 243, Price: price(20), Numbered: true},
					{ExternalID: "38", Name: "Grada 2", Capacity: 100, Price: price(15)},
				},
			},
		},
	}
}

func TestCatalogRepository_Providers(t *testing.T) {
	repo := NewCatalogRepository(setupTestDB(t), logger.NewNopLogger())
	ctx := context.Background()

	first := createTestProvider(t, repo, "first")
	second := createTestProvider(t, repo, "second")

	got, err := repo.GetProvider(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)
	assert.True(t, got.Active)

	_, err = repo.GetProvider(ctx, uuid.New())
	assert.ErrorIs(t, err, catalog.ErrProviderNotFound)

	require.NoError(t, repo.SetProviderActive(ctx, second.ID, false))
	assert.ErrorIs(t, repo.SetProviderActive(ctx, uuid.New(), false), catalog.ErrProviderNotFound)

	all, err := repo.ListProviders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.ListActiveProviders(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, first.ID, active[0].ID)
}

func TestCatalogRepository_PersistBasePlan(t *testing.T) {
	repo := NewCatalogRepository(setupTestDB(t), logger.NewNopLogger())
	ctx := context.Background()
	provider := createTestProvider(t, repo, "prov")

	persisted, err := repo.PersistBasePlan(ctx, testBasePlan(provider.ID))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, persisted.ID)
	assert.Equal(t, provider.ID, persisted.ProviderID)
	assert.Equal(t, catalog.SellModeOnline, persisted.SellMode)
	require.Len(t, persisted.Plans, 1)

	plan := persisted.Plans[0]
	assert.Equal(t, persisted.ID, plan.BasePlanID)
	assert.True(t, time.Date(2021, 6, 30, 21, 0, 0, 0, time.UTC).Equal(plan.StartsAt))
	assert.False(t, plan.SellFrom.IsZero())
	assert.True(t, plan.SellTo.IsZero())
	require.Len(t, plan.Zones, 2)
	assert.Equal(t, "38", plan.Zones[0].ExternalID)
	assert.Equal(t, 15.0, *plan.Zones[0].Price)
}

func TestCatalogRepository_PersistBasePlanIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db, logger.NewNopLogger())
	ctx := context.Background()
	provider := createTestProvider(t, repo, "prov")

	first, err := repo.PersistBasePlan(ctx, testBasePlan(provider.ID))
	require.NoError(t, err)

	replay := testBasePlan(provider.ID)
	replay.Title = "Camela (nueva fecha)"
	replay.Plans[0].SoldOut = true
	replay.Plans[0].Zones = replay.Plans[0].Zones[:1]

	second, err := repo.PersistBasePlan(ctx, replay)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Plans[0].ID, second.Plans[0].ID)
	assert.Equal(t, "Camela (nueva fecha)", second.Title)
	assert.True(t, second.Plans[0].SoldOut)
	require.Len(t, second.Plans[0].Zones, 1)
	assert.Equal(t, first.Plans[0].Zones[1].ID, second.Plans[0].Zones[0].ID, "zone 40 keeps its id")

	var count int64
	require.NoError(t, db.Model(&models.BasePlanModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Model(&models.ZoneModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCatalogRepository_PersistFailureWrapsErrPersist(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db, logger.NewNopLogger())
	require.NoError(t, db.Migrator().DropTable(&models.PlanModel{}))

	_, err := repo.PersistBasePlan(context.Background(), testBasePlan(uuid.New()))

	assert.ErrorIs(t, err, catalog.ErrPersist)

	var count int64
	require.NoError(t, db.Model(&models.BasePlanModel{}).Count(&count).Error)
	assert.Zero(t, count, "base plan insert is rolled back")
}

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availabilityUsecases "github.com/orris-inc/plansearch/internal/application/availability/usecases"
	"github.com/orris-inc/plansearch/internal/domain/catalog"
	"github.com/orris-inc/plansearch/internal/infrastructure/cache"
	"github.com/orris-inc/plansearch/internal/infrastructure/config"
	sharedConfig "github.com/orris-inc/plansearch/internal/shared/config"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{Index: sharedConfig.IndexConfig{
		DetailTTL:    time.Hour,
		MaxMatches:   500,
		QueryTimeout: time.Second,
	}}
	router := NewRouter(NewContainer(cfg, client, logger.NewNopLogger()))
	router.SetupRoutes()
	return router.GetEngine(), client, mr
}

func get(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestRouter_SearchEndToEnd(t *testing.T) {
	engine, client, _ := newTestRouter(t)

	providerID := uuid.MustParse("0b0f6c1e-3f5d-4a51-9b4e-3c9a1f7d2e10")
	price := 20.0
	start := time.Date(2021, 6, 30, 21, 0, 0, 0, time.UTC)
	indexer := availabilityUsecases.NewIndexPlanUseCase(
		cache.NewIntervalIndex(client), cache.NewDetailCache(client, time.Hour), time.Hour, logger.NewNopLogger())
	_, err := indexer.Execute(context.Background(), availabilityUsecases.IndexPlanCommand{
		BasePlan: &catalog.BasePlan{ProviderID: providerID, ExternalID: "291", Title: "Camela", SellMode: catalog.SellModeOnline},
		Plan: &catalog.Plan{ExternalID: "291", StartsAt: start, EndsAt: start.Add(time.Hour),
			Zones: []*catalog.Zone{{ExternalID: "40", Price: &price}}},
	})
	require.NoError(t, err)

	w := get(engine, "/search?starts_at=2021-06-30T00:00:00&ends_at=2021-07-01T00:00:00")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"events":[{
		"id":"291","plan_id":"291","provider_id":"0b0f6c1e-3f5d-4a51-9b4e-3c9a1f7d2e10","title":"Camela",
		"start_date":"2021-06-30","start_time":"21:00:00","end_date":"2021-06-30","end_time":"22:00:00",
		"min_price":20,"max_price":20,"sold_out":false}]},"error":null}`, w.Body.String())

	w = get(engine, "/search?starts_at=2021-07-01T00:00:00&ends_at=2021-06-30T00:00:00")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_SearchStoreDown(t *testing.T) {
	engine, _, mr := newTestRouter(t)
	mr.Close()

	w := get(engine, "/search?starts_at=2021-06-30T00:00:00&ends_at=2021-07-01T00:00:00")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"service_unavailable"`)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	engine, _, mr := newTestRouter(t)

	assert.Equal(t, http.StatusOK, get(engine, "/health").Code)
	assert.Equal(t, http.StatusOK, get(engine, "/health/full").Code)

	get(engine, "/search?starts_at=bad&ends_at=bad")
	metrics := get(engine, "/metrics")
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "plansearch_search_requests_total")

	mr.Close()
	assert.Equal(t, http.StatusServiceUnavailable, get(engine, "/health/full").Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	engine, _, _ := newTestRouter(t)

	w := get(engine, "/plans")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"data":null,"error":{"code":"not_found","message":"route not found"}}`, w.Body.String())
}

func TestRouter_WrongMethod(t *testing.T) {
	engine, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/search", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"data":null,"error":{"code":"method_not_allowed","message":"method not allowed"}}`, w.Body.String())
}

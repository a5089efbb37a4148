package cache

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/plansearch/internal/domain/availability"
	"github.com/orris-inc/plansearch/internal/shared/config"
)

func testDetail(base, leaf string) *availability.PlanDetail {
	p := 12.5
	return &availability.PlanDetail{
		Version:    availability.DetailSchemaVersion,
		ProviderID: "prov",
		BasePlanID: base,
		PlanID:     leaf,
		Title:      "Los Morancos",
		SellMode:   "online",
		StartEpoch: 100,
		EndEpoch:   200,
		Zones:      []availability.ZoneDetail{{ZoneID: "7", Name: "Patio", Capacity: 10, Price: &p}},
	}
}

func TestDetailCache_PutGet(t *testing.T) {
	client, mr := newTestStore(t)
	cache := NewDetailCache(client, time.Hour)
	ctx := context.Background()

	d := testDetail("1", "2")
	require.NoError(t, cache.Put(ctx, d, 0))

	got, err := cache.Get(ctx, d.Key())
	require.NoError(t, err)
	assert.Equal(t, d, got)
	assert.Equal(t, time.Hour, mr.TTL("detail:prov:1:2"))

	ttl, err := cache.TTL(ctx, d.Key())
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)
}

func TestDetailCache_PutOverwritesAndResetsTTL(t *testing.T) {
	client, mr := newTestStore(t)
	cache := NewDetailCache(client, time.Hour)
	ctx := context.Background()

	d := testDetail("1", "2")
	require.NoError(t, cache.Put(ctx, d, time.Minute))
	mr.FastForward(30 * time.Second)

	d.Title = "renamed"
	require.NoError(t, cache.Put(ctx, d, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("detail:prov:1:2"))

	got, err := cache.Get(ctx, d.Key())
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
}

func TestDetailCache_GetExpired(t *testing.T) {
	client, mr := newTestStore(t)
	cache := NewDetailCache(client, time.Hour)
	ctx := context.Background()

	d := testDetail("1", "2")
	require.NoError(t, cache.Put(ctx, d, time.Second))
	mr.FastForward(2 * time.Second)

	_, err := cache.Get(ctx, d.Key())
	assert.ErrorIs(t, err, availability.ErrDetailNotFound)
}

func TestDetailCache_GetMany(t *testing.T) {
	client, mr := newTestStore(t)
	cache := NewDetailCache(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, testDetail("1", "1"), 0))
	require.NoError(t, cache.Put(ctx, testDetail("1", "3"), 0))
	require.NoError(t, mr.Set("detail:prov:1:4", "{broken"))

	lookups, err := cache.GetMany(ctx, []string{"prov:1:1", "prov:1:2", "prov:1:3", "prov:1:4"})
	require.NoError(t, err)
	require.Len(t, lookups, 4)

	assert.NoError(t, lookups[0].Err)
	assert.Equal(t, "1", lookups[0].Detail.PlanID)

	assert.ErrorIs(t, lookups[1].Err, availability.ErrDetailNotFound)
	assert.Nil(t, lookups[1].Detail)

	assert.Equal(t, "prov:1:3", lookups[2].Member)
	assert.NoError(t, lookups[2].Err)

	var serr *availability.SerializationError
	assert.ErrorAs(t, lookups[3].Err, &serr)
}

func TestDetailCache_GetManyChunks(t *testing.T) {
	client, _ := newTestStore(t)
	cache := NewDetailCache(client, time.Hour)
	ctx := context.Background()

	members := make([]string, 0, 250)
	for i := 0; i < 250; i++ {
		d := testDetail("b", fmt.Sprintf("%d", i))
		require.NoError(t, cache.Put(ctx, d, 0))
		members = append(members, d.Key().Member())
	}

	lookups, err := cache.GetMany(ctx, members)
	require.NoError(t, err)
	require.Len(t, lookups, 250)
	for i, l := range lookups {
		require.NoError(t, l.Err)
		assert.Equal(t, members[i], l.Member)
	}
}

func TestDetailCache_ExistsAndKeys(t *testing.T) {
	client, _ := newTestStore(t)
	cache := NewDetailCache(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, testDetail("1", "1"), 0))
	require.NoError(t, cache.Put(ctx, testDetail("2", "1"), 0))

	present, err := cache.Exists(ctx, []string{"prov:1:1", "prov:9:9"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"prov:1:1": true, "prov:9:9": false}, present)

	keys, err := cache.Keys(ctx, "", 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"detail:prov:1:1", "detail:prov:2:1"}, keys)

	keys, err = cache.Keys(ctx, "detail:prov:2:*", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"detail:prov:2:1"}, keys)

	keys, err = cache.Keys(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestStorePinger(t *testing.T) {
	client, mr := newTestStore(t)
	pinger := NewStorePinger(client)

	assert.NoError(t, pinger.Ping(context.Background()))

	mr.Close()
	assert.ErrorIs(t, pinger.Ping(context.Background()), availability.ErrStoreUnavailable)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	host := mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewRedisClient(context.Background(), &config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), &config.RedisConfig{Host: host, Port: port})
	assert.Error(t, err)
}

package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/plansearch/internal/domain/catalog"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<planList xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" version="1.0">
   <output>
      <base_plan base_plan_id="291" sell_mode="online" title="Camela en concierto">
         <plan plan_start_date="2021-06-30T21:00:00" plan_end_date="2021-06-30T22:00:00" plan_id="291" sell_from="2020-07-01T00:00:00" sell_to="2021-06-30T20:00:00" sold_out="false">
            <zone zone_id="40" capacity="243" price="20.00" name="Platea" numbered="true"/>
            <zone zone_id="38" capacity="100" price="15.00" name="Grada 2" numbered="false"/>
         </plan>
      </base_plan>
      <base_plan base_plan_id="444" sell_mode="offline" organizer_company_id="1" title="Tributo a la Leyenda del Rock">
         <plan plan_start_date="2021-09-31T20:00:00" plan_end_date="2021-09-31T21:00:00" plan_id="1642" sell_from="2021-02-10T00:00:00" sell_to="2021-09-31T19:50:00" sold_out="false">
            <zone zone_id="7" capacity="22" price="65.00" name="Amfiteatre" numbered="false"/>
         </plan>
      </base_plan>
   </output>
</planList>`

func newFeedServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Fetch(t *testing.T) {
	srv := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "plansearch-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(sampleFeed))
	})
	client := NewClient(ClientOptions{UserAgent: "plansearch-test"}, logger.NewNopLogger())

	body, err := client.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, sampleFeed, string(body))
}

func TestClient_FetchRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(sampleFeed))
	})
	client := NewClient(ClientOptions{
		RetryCount:   2,
		RetryWait:    time.Millisecond,
		RetryMaxWait: 5 * time.Millisecond,
	}, logger.NewNopLogger())

	_, err := client.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_FetchClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})
	client := NewClient(ClientOptions{RetryCount: 3, RetryWait: time.Millisecond}, logger.NewNopLogger())

	_, err := client.Fetch(context.Background(), srv.URL)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_FetchRejectsNonHTTPURL(t *testing.T) {
	client := NewClient(ClientOptions{}, logger.NewNopLogger())

	_, err := client.Fetch(context.Background(), "file:///etc/passwd")

	assert.ErrorIs(t, err, catalog.ErrInvalidProvider)
}

func TestDecode(t *testing.T) {
	list, err := Decode([]byte(sampleFeed))
	require.NoError(t, err)

	require.Len(t, list.Output.BasePlans, 2)
	first := list.Output.BasePlans[0]
	assert.Equal(t, "291", first.BasePlanID)
	assert.Equal(t, "online", first.SellMode)
	require.Len(t, first.Plans, 1)
	require.Len(t, first.Plans[0].Zones, 2)
	assert.Equal(t, "20.00", first.Plans[0].Zones[0].Price)
	assert.Equal(t, "1", list.Output.BasePlans[1].OrganizerCompanyID)
}

func TestDecode_Latin1(t *testing.T) {
	// "Pelíc" with í encoded as the single byte 0xED
	body := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<planList><output><base_plan base_plan_id=\"1\" title=\"Pel\xedc\"/></output></planList>")

	list, err := Decode(body)

	require.NoError(t, err)
	assert.Equal(t, "Pelíc", list.Output.BasePlans[0].Title)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte("<planList><output>"))
	assert.Error(t, err)
}

func TestToCatalog(t *testing.T) {
	list, err := Decode([]byte(sampleFeed))
	require.NoError(t, err)
	providerID := uuid.New()

	basePlans, errs := ToCatalog(providerID, list)

	// 2021-09-31 does not exist, so plan 1642 is dropped
	require.Len(t, errs, 1)
	require.Len(t, basePlans, 2)

	online := basePlans[0]
	assert.Equal(t, providerID, online.ProviderID)
	assert.Equal(t, catalog.SellModeOnline, online.SellMode)
	assert.True(t, online.Indexable())
	require.Len(t, online.Plans, 1)

	plan := online.Plans[0]
	assert.Equal(t, time.Date(2021, 6, 30, 21, 0, 0, 0, time.UTC), plan.StartsAt)
	assert.Equal(t, time.Date(2021, 6, 30, 22, 0, 0, 0, time.UTC), plan.EndsAt)
	assert.Equal(t, time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC), plan.SellFrom)
	assert.False(t, plan.SoldOut)
	require.Len(t, plan.Zones, 2)
	assert.Equal(t, int64(243), plan.Zones[0].Capacity)
	assert.Equal(t, 20.0, *plan.Zones[0].Price)
	assert.True(t, plan.Zones[0].Numbered)

	offline := basePlans[1]
	assert.Equal(t, catalog.SellModeOffline, offline.SellMode)
	assert.False(t, offline.Indexable())
	assert.Empty(t, offline.Plans)
}

func TestToCatalog_DropsUnusableElements(t *testing.T) {
	list := &PlanList{Output: Output{BasePlans: []BasePlan{
		{BasePlanID: "", SellMode: "online"},
		{BasePlanID: "a:b", SellMode: "online"},
		{BasePlanID: "7", SellMode: "ONLINE", Plans: []Plan{
			{PlanID: "", StartDate: "2021-06-01T10:00:00", EndDate: "2021-06-01T11:00:00"},
			{PlanID: "late", StartDate: "2021-06-01T10:00:00", EndDate: "2021-06-01T09:00:00"},
			{PlanID: "ok", StartDate: "2021-06-01T10:00:00", EndDate: "2021-06-01T10:00:00",
				SellFrom: "yesterday", SoldOut: "true",
				Zones: []Zone{
					{ZoneID: "", Name: "ghost"},
					{ZoneID: "z1", Capacity: "lots", Price: "free"},
					{ZoneID: "z2", Capacity: "5", Price: ""},
				}},
		}},
	}}}

	basePlans, errs := ToCatalog(uuid.New(), list)

	assert.Len(t, errs, 5)
	require.Len(t, basePlans, 1)
	bp := basePlans[0]
	assert.Equal(t, catalog.SellModeOnline, bp.SellMode)
	require.Len(t, bp.Plans, 1)

	plan := bp.Plans[0]
	assert.Equal(t, "ok", plan.ExternalID)
	assert.True(t, plan.SellFrom.IsZero())
	assert.True(t, plan.SoldOut)
	require.Len(t, plan.Zones, 2)
	assert.Zero(t, plan.Zones[0].Capacity)
	assert.Nil(t, plan.Zones[0].Price)
	assert.Nil(t, plan.Zones[1].Price)

	var mappingErr *MappingError
	require.True(t, errors.As(errs[0], &mappingErr))
	assert.Equal(t, "missing base_plan_id", mappingErr.Reason)
}

func TestToCatalog_Nil(t *testing.T) {
	basePlans, errs := ToCatalog(uuid.New(), nil)
	assert.Nil(t, basePlans)
	assert.Nil(t, errs)
}

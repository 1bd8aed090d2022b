package holidays_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/generic/store"
	"github.com/warp/leave-engine/holidays"
)

func dates(hs []generic.Holiday) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Date.String()
	}
	return out
}

// =============================================================================
// COMPUTED RULES
// =============================================================================

func TestEasterSunday(t *testing.T) {
	tests := map[int]string{
		2000: "2000-04-23",
		2019: "2019-04-21",
		2024: "2024-03-31",
		2025: "2025-04-20",
		2026: "2026-04-05",
	}
	for year, want := range tests {
		assert.Equal(t, want, holidays.EasterSunday(year).String(), "year %d", year)
	}
}

func TestComputeUK_EnglandAndWales(t *testing.T) {
	hs, err := holidays.ComputeUK(holidays.RegionEnglandAndWales, 2025)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2025-01-01", "2025-04-18", "2025-04-21", "2025-05-05",
		"2025-05-26", "2025-08-25", "2025-12-25", "2025-12-26",
	}, dates(hs))
	assert.Equal(t, "Good Friday", hs[1].Title)
	assert.Equal(t, holidays.RegionEnglandAndWales, hs[0].Region)
}

func TestComputeUK_ChristmasSubstitutes(t *testing.T) {
	// 2021: Christmas on Saturday
	hs, err := holidays.ComputeUK(holidays.RegionEnglandAndWales, 2021)
	require.NoError(t, err)
	tail := dates(hs)[len(hs)-2:]
	assert.Equal(t, []string{"2021-12-27", "2021-12-28"}, tail)
	assert.Contains(t, hs[len(hs)-2].Title, "substitute day")

	// 2022: Christmas on Sunday
	hs, err = holidays.ComputeUK(holidays.RegionEnglandAndWales, 2022)
	require.NoError(t, err)
	assert.Equal(t, []string{"2022-12-26", "2022-12-27"}, dates(hs)[len(hs)-2:])
}

func TestComputeUK_Scotland(t *testing.T) {
	hs, err := holidays.ComputeUK(holidays.RegionScotland, 2022)
	require.NoError(t, err)
	got := dates(hs)

	// New Year on Saturday pushes both January holidays
	assert.Equal(t, []string{"2022-01-03", "2022-01-04"}, got[:2])
	assert.Contains(t, got, "2022-08-01", "first Monday of August")
	assert.NotContains(t, got, "2022-04-18", "no Easter Monday")

	hs, err = holidays.ComputeUK(holidays.RegionScotland, 2024)
	require.NoError(t, err)
	assert.Contains(t, dates(hs), "2024-12-02", "St Andrew's Day moved off Saturday")
}

func TestComputeUK_NorthernIreland(t *testing.T) {
	hs, err := holidays.ComputeUK(holidays.RegionNorthernIreland, 2024)
	require.NoError(t, err)
	got := dates(hs)

	assert.Len(t, got, 10)
	assert.Contains(t, got, "2024-03-18", "St Patrick's Day moved off Sunday")
	assert.Contains(t, got, "2024-07-12")
}

func TestComputeUK_Rejects(t *testing.T) {
	_, err := holidays.ComputeUK("wales-only", 2024)
	assert.ErrorIs(t, err, generic.ErrRegionUnknown)

	_, err = holidays.ComputeUK(holidays.RegionScotland, 0)
	assert.ErrorIs(t, err, generic.ErrInvalidYear)
}

// =============================================================================
// GOV.UK FEED
// =============================================================================

const feedJSON = `{
  "england-and-wales": {"division": "england-and-wales", "events": [
    {"title": "Christmas Day", "date": "2024-12-25", "notes": "", "bunting": true},
    {"title": "Boxing Day", "date": "2024-12-26", "notes": "", "bunting": true},
    {"title": "New Year’s Day", "date": "2025-01-01", "notes": "", "bunting": true},
    {"title": "Broken", "date": "soon", "notes": "", "bunting": false}
  ]},
  "scotland": {"division": "scotland", "events": [
    {"title": "St Andrew’s Day", "date": "2024-12-02", "notes": "Substitute day", "bunting": true}
  ]}
}`

func TestParseGovUK(t *testing.T) {
	feed, err := holidays.ParseGovUK(strings.NewReader(feedJSON))
	require.NoError(t, err)

	require.Len(t, feed, 2)
	assert.Equal(t, []string{"2024-12-25", "2024-12-26", "2025-01-01"}, dates(feed["england-and-wales"]))
	assert.Equal(t, "Substitute day", feed["scotland"][0].Notes)

	_, err = holidays.ParseGovUK(strings.NewReader("<html>"))
	assert.Error(t, err)
}

func TestGovUK_FetchesOnceAndFilters(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedJSON))
	}))
	defer srv.Close()

	g := holidays.NewGovUK(srv.URL, 5*time.Second, nil)
	ctx := context.Background()

	hs, err := g.Holidays(ctx, holidays.RegionEnglandAndWales, 2024)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-12-25", "2024-12-26"}, dates(hs))

	hs, err = g.Holidays(ctx, holidays.RegionEnglandAndWales, 2025)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-01"}, dates(hs))
	assert.Equal(t, int32(1), hits.Load(), "feed is cached")

	_, err = g.Holidays(ctx, holidays.RegionNorthernIreland, 2024)
	assert.ErrorIs(t, err, generic.ErrRegionUnknown)
}

func TestGovUK_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := holidays.NewGovUK(srv.URL, time.Second, nil)
	_, err := g.Holidays(context.Background(), holidays.RegionEnglandAndWales, 2024)
	assert.ErrorIs(t, err, generic.ErrUpstream)
}

// =============================================================================
// STORED AND CHAIN
// =============================================================================

type failingSource struct{}

func (failingSource) Holidays(context.Context, string, int) ([]generic.Holiday, error) {
	return nil, errors.New("boom")
}

func TestChain_FallsBackToComputed(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	chain := holidays.NewChain(nil, failingSource{}, holidays.Stored{Store: mem}, holidays.Computed{})

	// GIVEN: nothing stored, the computed rules answer
	cal, err := holidays.Calendar(ctx, chain, holidays.RegionEnglandAndWales, 2024)
	require.NoError(t, err)
	assert.Len(t, cal, 8)

	// WHEN: curated holidays are stored, they win
	require.NoError(t, mem.SaveHolidays(ctx, []generic.Holiday{
		{Region: holidays.RegionEnglandAndWales, Date: generic.NewTimePoint(2024, time.June, 3), Title: "Company day"},
	}))
	cal, err = holidays.Calendar(ctx, chain, holidays.RegionEnglandAndWales, 2024)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-03"}, cal.Dates())
}

func TestChain_AllFail(t *testing.T) {
	chain := holidays.NewChain(nil, failingSource{})
	_, err := chain.Holidays(context.Background(), holidays.RegionScotland, 2024)
	assert.EqualError(t, err, "boom")
}

package sqlite_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEmployees_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	doc := generic.StoredDocument{
		ID:   "emp-1",
		Name: "Sam Carter",
		Code: "SC",
		Data: generic.Document{
			"name":            "Sam Carter",
			"allowanceByYear": map[string]any{"2024": 20},
		},
	}
	require.NoError(t, s.SaveEmployee(ctx, doc))

	got, err := s.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Sam Carter", got.Name)
	assert.Equal(t, "SC", got.Code)
	assert.False(t, got.CreatedAt.IsZero())

	// numbers survive as json.Number
	byYear, ok := got.Data["allowanceByYear"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("20"), byYear["2024"])

	_, err = s.GetEmployee(ctx, "missing")
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)

	require.NoError(t, s.DeleteEmployee(ctx, "emp-1"))
	list, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmployees_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.SaveEmployee(ctx, generic.StoredDocument{ID: "e", Name: "B", Data: generic.Document{}}))
	first, err := s.GetEmployee(ctx, "e")
	require.NoError(t, err)

	require.NoError(t, s.SaveEmployee(ctx, generic.StoredDocument{ID: "e", Name: "A", Data: generic.Document{}}))
	second, err := s.GetEmployee(ctx, "e")
	require.NoError(t, err)

	assert.Equal(t, "A", second.Name)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
}

func TestRequests_FilterAndMatch(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	docs := []generic.StoredDocument{
		{ID: "r1", Name: "Sam Carter", Code: "SC", Status: "approved", CreatedAt: base},
		{ID: "r2", Name: " sam  CARTER ", Status: "pending", CreatedAt: base.Add(time.Minute)},
		{ID: "r3", Name: "Alex Reid", Code: "sc", Status: "other", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "r4", Name: "Alex Reid", Code: "AR", Status: "approved", CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, d := range docs {
		d.Data = generic.Document{"employee": d.Name, "status": d.Status}
		require.NoError(t, s.SaveRequest(ctx, d))
	}

	all, err := s.ListRequests(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, ids(all))

	approved, err := s.ListRequests(ctx, "approved")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r4"}, ids(approved))

	mine, err := s.ListRequestsFor(ctx, "Sam Carter", "SC")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids(mine))

	none, err := s.ListRequestsFor(ctx, " ", "")
	require.NoError(t, err)
	assert.Empty(t, none)

	got, err := s.GetRequest(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, " sam  CARTER ", got.Data["employee"])

	require.NoError(t, s.DeleteRequest(ctx, "r2"))
	_, err = s.GetRequest(ctx, "r2")
	assert.ErrorIs(t, err, generic.ErrRequestNotFound)
}

func TestHolidays_UpsertListDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	region := "england-and-wales"

	require.NoError(t, s.SaveHolidays(ctx, []generic.Holiday{
		{Region: region, Date: generic.NewTimePoint(2025, time.January, 1), Title: "New Year"},
		{Region: region, Date: generic.NewTimePoint(2024, time.December, 26), Title: "Boxing Day"},
		{Region: region, Date: generic.NewTimePoint(2024, time.December, 25), Title: "Xmas"},
		{Region: "scotland", Date: generic.NewTimePoint(2024, time.December, 2), Title: "St Andrew"},
	}))
	require.NoError(t, s.SaveHolidays(ctx, []generic.Holiday{
		{Region: region, Date: generic.NewTimePoint(2024, time.December, 25), Title: "Christmas Day"},
	}))

	hs, err := s.ListHolidays(ctx, region, 2024)
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, "Christmas Day", hs[0].Title)
	assert.Equal(t, generic.NewTimePoint(2024, time.December, 25), hs[0].Date)

	all, err := s.ListHolidays(ctx, region, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, s.DeleteHoliday(ctx, region, generic.NewTimePoint(2025, time.January, 1)))
	all, err = s.ListHolidays(ctx, region, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.SaveEmployee(ctx, generic.StoredDocument{ID: "e", Data: generic.Document{}}))
	require.NoError(t, s.SaveRequest(ctx, generic.StoredDocument{ID: "r", Data: generic.Document{}}))
	require.NoError(t, s.Reset(ctx))

	emps, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, emps)
	reqs, err := s.ListRequests(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestFileDatabasePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leave.db")

	s, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveEmployee(ctx, generic.StoredDocument{ID: "e", Name: "Sam", Data: generic.Document{"name": "Sam"}}))
	require.NoError(t, s.Close())

	s, err = sqlite.New(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.GetEmployee(ctx, "e")
	require.NoError(t, err)
	assert.Equal(t, "Sam", got.Data["name"])
}

func ids(docs []generic.StoredDocument) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

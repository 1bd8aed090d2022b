package factory_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-engine/factory"
	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
)

func fixedIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i]
		i++
		return id
	}
}

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
	}{
		{"single object", `{"employee": "Sam"}`, 1},
		{"array", `[{"employee": "Sam"}, {"employee": "Alex"}]`, 2},
		{"wrapped", `{"requests": [{"employee": "Sam"}]}`, 1},
		{"documents wrapper", `{"documents": [{"a": 1}, {"b": 2}, {"c": 3}]}`, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := factory.ParseString(tt.input)
			require.NoError(t, err)
			assert.Len(t, docs, tt.count)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, input := range []string{``, `"text"`, `[1, 2]`, `[]`, `{"items": []}`, `{broken`} {
		_, err := factory.ParseString(input)
		assert.Error(t, err, input)
	}

	_, err := factory.ParseString(`[]`)
	assert.ErrorIs(t, err, factory.ErrEmptyDocument)
}

func TestParse_KeepsNumbersExact(t *testing.T) {
	docs, err := factory.ParseString(`{"startDate": 1717974000000}`)
	require.NoError(t, err)
	assert.Equal(t, json.Number("1717974000000"), docs[0]["startDate"])

	r := leave.DecodeRequest(docs[0])
	assert.Equal(t, generic.NewTimePoint(2024, time.June, 10), r.Start)
}

func TestParse_FirestoreREST(t *testing.T) {
	input := `{
	  "name": "projects/p/databases/(default)/documents/leaveRequests/abc123",
	  "fields": {
	    "employee": {"stringValue": "Sam Carter"},
	    "startDate": {"timestampValue": "2024-06-09T23:00:00Z"},
	    "halfDay": {"booleanValue": true},
	    "days": {"integerValue": "1"},
	    "meta": {"mapValue": {"fields": {"source": {"stringValue": "app"}}}},
	    "tags": {"arrayValue": {"values": [{"stringValue": "a"}]}},
	    "note": {"nullValue": null}
	  }
	}`
	docs, err := factory.ParseString(input)
	require.NoError(t, err)
	doc := docs[0]

	assert.Equal(t, "abc123", doc["id"])
	assert.Equal(t, "Sam Carter", doc["employee"])
	assert.Equal(t, true, doc["halfDay"])
	assert.Equal(t, json.Number("1"), doc["days"])
	assert.Equal(t, map[string]any{"source": "app"}, doc["meta"])
	assert.Equal(t, []any{"a"}, doc["tags"])
	assert.Nil(t, doc["note"])

	r := leave.DecodeRequest(doc)
	assert.Equal(t, generic.NewTimePoint(2024, time.June, 10), r.Start)
}

func TestDocumentFactory_LiftsFields(t *testing.T) {
	f := &factory.DocumentFactory{NewID: fixedIDs("gen-1")}

	req, err := f.ParseRequest(factory.LegacyHalfDayJSON("", " Sam  Carter ", "2024-06-10", "Awaiting approval"))
	require.NoError(t, err)

	assert.Equal(t, "gen-1", req.ID)
	assert.Equal(t, "gen-1", req.Data["id"], "generated id written back")
	assert.Equal(t, "Sam  Carter", req.Name)
	assert.Equal(t, "pending", req.Status)

	emp, err := f.ParseEmployee(factory.FlatEmployeeJSON("Alex Reid", "AR", 25, 2))
	require.NoError(t, err)
	assert.Equal(t, "Alex Reid", emp.Name)
	assert.Equal(t, "AR", emp.Code)
}

func TestDocumentFactory_KeepsExistingID(t *testing.T) {
	f := factory.NewDocumentFactory()
	docs, err := f.ParseRequests(strings.NewReader(factory.AnnualLeaveJSON("r-1", "Sam", "2024-06-10", "2024-06-14", "Approved")))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "r-1", docs[0].ID)
	assert.Equal(t, "approved", docs[0].Status)
}

func TestPresets_DecodeAsIntended(t *testing.T) {
	tests := []struct {
		name string
		json string
		kind leave.Kind
	}{
		{"annual", factory.AnnualLeaveJSON("a", "Sam", "2024-06-10", "2024-06-10", "Approved"), leave.KindPaid},
		{"unpaid", factory.UnpaidLeaveJSON("u", "Sam", "2024-06-10", "2024-06-10", "Approved"), leave.KindUnpaid},
		{"sick", factory.SickLeaveJSON("s", "Sam", "2024-06-10", "2024-06-10", "Approved"), leave.KindOther},
		{"toil", factory.TOILJSON("t", "Sam", "2024-06-10", "2024-06-10", "Approved"), leave.KindAccrued},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := factory.ParseString(tt.json)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, leave.DecodeRequest(docs[0]).Kind)
		})
	}

	docs, err := factory.ParseString(factory.EmployeeJSON("Sam", "SC", 2024, 20, 3))
	require.NoError(t, err)
	emp := leave.DecodeEmployee(docs[0])
	a := leave.AllowanceForYear(emp, 2024)
	assert.Equal(t, "23", a.Total().Value.String())
}

package iot_test

import (
	"context"
	"net/http"
	"net/url"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrcrawfo/contxt-go/internal/api"
	"github.com/jrcrawfo/contxt-go/internal/iot"
	"github.com/jrcrawfo/contxt-go/internal/mapping"
	"github.com/jrcrawfo/contxt-go/internal/pagination"
)

const groupingJSON = `{
	"id": "g-1", "label": "Boilers", "slug": "boilers", "description": "Boiler room",
	"facility_id": 7, "owner_id": "u-1", "is_public": true,
	"created_at": "2023-01-02T03:04:05Z", "updated_at": "2023-01-03T03:04:05Z",
	"field_category_id": "c-1",
	"Owner": {"id": "u-1", "first_name": "Ada", "last_name": "Lovelace"},
	"FieldCategory": {"id": "c-1", "name": "Thermal", "description": "", "organization_id": "o-1",
		"parent_category_id": null, "created_at": "2022-01-01T00:00:00Z", "updated_at": "2022-01-01T00:00:00Z"},
	"Fields": [
		{"id": 1, "label": "Temp", "output_id": 3, "field_descriptor": "temp", "field_human_name": "temperature",
		 "is_hidden": false, "status": "active", "units": "F"},
		{"id": 2, "label": "Flow", "output_id": 3, "field_descriptor": "flow", "field_human_name": "flow",
		 "is_hidden": true, "status": "active", "units": "gpm"}
	]
}`

const uncategorisedJSON = `{
	"id": "g-2", "label": "Misc", "slug": "misc", "description": null,
	"facility_id": 7, "owner_id": "u-1", "is_public": false,
	"created_at": "2023-01-02T03:04:05Z", "updated_at": "2023-01-02T03:04:05Z",
	"field_category_id": null,
	"Owner": {"id": "u-1", "first_name": "Ada", "last_name": "Lovelace"},
	"FieldCategory": null,
	"Fields": []
}`

func newService(t *testing.T, h http.Handler) *iot.Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := api.NewClient(srv.URL)
	require.NoError(t, err)
	return iot.NewService(api.Pager{Client: c, Params: *pagination.NewParams()})
}

func TestGetFieldGrouping(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/groupings/g-1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(groupingJSON))
	})
	svc := newService(t, mux)

	g, err := svc.GetFieldGrouping(context.Background(), "g-1")
	require.NoError(t, err)

	assert.Equal(t, "Boilers", g.Label)
	assert.Equal(t, int64(7), g.FacilityID)
	require.NotNil(t, g.Owner)
	assert.Equal(t, "Lovelace", g.Owner.LastName)
	require.NotNil(t, g.Category)
	assert.Equal(t, "Thermal", g.Category.Name)
	assert.Empty(t, g.Category.ParentCategoryID)
	require.Len(t, g.Fields, 2)
	assert.True(t, g.Fields[1].IsHidden)
	assert.Equal(t, "gpm", g.Fields[1].Units)

	summary := g.Summary()
	assert.Equal(t, []string{
		"id", "label", "slug", "description", "facility_id", "field_category_id",
		"field_category_name", "field_count",
	}, summary.Names())
	assert.Equal(t, "Thermal", summary.Str("field_category_name"))
	assert.Equal(t, int64(2), summary.Int("field_count"))
}

func TestGetFieldGrouping_Errors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/groupings/broken", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "broken"}`))
	})
	svc := newService(t, mux)

	_, err := svc.GetFieldGrouping(context.Background(), "")
	assert.ErrorIs(t, err, iot.ErrEmptyID)

	_, err = svc.GetFieldGrouping(context.Background(), "missing")
	assert.True(t, api.IsNotFound(err))

	_, err = svc.GetFieldGrouping(context.Background(), "broken")
	assert.ErrorIs(t, err, mapping.ErrMissingField)
}

func TestGetFieldGrouping_EscapesID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "dot segments", id: "a/../b", want: "/groupings/a%2F..%2Fb"},
		{name: "query characters", id: "g?x=1", want: "/groupings/g%3Fx=1"},
		{name: "space", id: "g 1", want: "/groupings/g%201"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got, gotQuery string
			svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.EscapedPath()
				gotQuery = r.URL.RawQuery
				_, _ = w.Write([]byte(groupingJSON))
			}))

			_, err := svc.GetFieldGrouping(context.Background(), tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, gotQuery)
		})
	}
}

func TestFieldGroupingsForFacility(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/facilities/7/groupings", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("offset") {
		case "0":
			_, _ = w.Write([]byte(`{"_metadata": {"offset": 0, "totalRecords": 2}, "records": [` + groupingJSON + `]}`))
		case "1":
			_, _ = w.Write([]byte(`{"_metadata": {"offset": 1, "totalRecords": 2}, "records": [` + uncategorisedJSON + `]}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	svc := newService(t, mux)

	groupings, err := svc.FieldGroupingsForFacility(7).Drain(context.Background())
	require.NoError(t, err)
	require.Len(t, groupings, 2)

	second := groupings[1]
	assert.Nil(t, second.Category)
	assert.Empty(t, second.Fields)

	summary := second.Summary()
	v, ok := summary.Get("field_category_name")
	require.True(t, ok)
	assert.True(t, v.IsNull())
	assert.Equal(t, int64(0), summary.Int("field_count"))
}

func TestFeeds_FacilityFilter(t *testing.T) {
	var gotFacility []string
	mux := http.NewServeMux()
	mux.HandleFunc("/feeds", func(w http.ResponseWriter, r *http.Request) {
		gotFacility = append(gotFacility, r.URL.Query().Get("facility_id"))
		_, _ = w.Write([]byte(`{"_metadata": {"offset": 0, "totalRecords": 1}, "records": [{
			"id": 4, "feed_type_id": 1, "down_after": 3600, "key": "plant-feed", "facility_id": 7,
			"timezone": "America/New_York", "token": "tok", "status": "Active",
			"degraded_threshold": 0.5, "critical_threshold": 0.9, "status_event_id": null,
			"created_at": "2020-05-01T00:00:00.000Z"}]}`))
	})
	svc := newService(t, mux)

	feeds, err := svc.Feeds(7).Drain(context.Background())
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.Equal(t, "plant-feed", feeds[0].Key)
	assert.InDelta(t, 0.9, feeds[0].CriticalThreshold, 1e-9)
	assert.Equal(t, 2020, feeds[0].CreatedAt.Year())

	_, err = svc.Feeds(0).Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"7", ""}, gotFacility)
}

func TestFieldsForFacility_BadRecord(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/facilities/7/fields", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"_metadata": {"offset": 0, "totalRecords": 1}, "records": [{"id": "x"}]}`))
	})
	svc := newService(t, mux)

	fields, err := svc.FieldsForFacility(7).Drain(context.Background())
	assert.Empty(t, fields)
	var recErr *pagination.RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 0, recErr.Index)
}

func TestFieldData_FollowsCursor(t *testing.T) {
	var queries []url.Values
	var paths []string
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		queries = append(queries, r.URL.Query())
		switch r.URL.Query().Get("cursor") {
		case "":
			_, _ = w.Write([]byte(`{"records": [
				{"event_time": "2024-03-01T00:00:00Z", "value": "71.5"},
				{"event_time": "2024-03-01T00:15:00Z", "value": null}
			], "nextCursor": "c2"}`))
		case "c2":
			_, _ = w.Write([]byte(`{"records": [{"event_time": "2024-03-01T00:30:00Z", "value": "72"}], "nextCursor": ""}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	it, err := svc.FieldData(3, "zone temp", iot.FieldDataQuery{
		Start:  start,
		End:    start.Add(time.Hour),
		Window: iot.WindowFifteenMinutes,
	})
	require.NoError(t, err)

	data, err := it.Drain(context.Background())
	require.NoError(t, err)
	require.Len(t, data, 3)
	assert.Equal(t, "71.5", data[0].Value)
	assert.Empty(t, data[1].Value)
	assert.True(t, start.Add(30*time.Minute).Equal(data[2].EventTime))

	require.Len(t, queries, 2)
	assert.Equal(t, []string{"/outputs/3/fields/zone%20temp/data", "/outputs/3/fields/zone%20temp/data"}, paths)
	assert.Equal(t, "1709251200", queries[0].Get("timeStart"))
	assert.Equal(t, "1709254800", queries[0].Get("timeEnd"))
	assert.Equal(t, "900", queries[0].Get("window"))
	assert.NotEmpty(t, queries[0].Get("limit"))
	assert.Equal(t, "c2", queries[1].Get("cursor"))
}

func TestFieldData_InvalidQuery(t *testing.T) {
	svc := newService(t, http.NotFoundHandler())
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		field   string
		query   iot.FieldDataQuery
		wantErr error
	}{
		{name: "empty field", field: "", query: iot.FieldDataQuery{Start: start}, wantErr: iot.ErrEmptyID},
		{name: "missing start", field: "temp", query: iot.FieldDataQuery{}, wantErr: iot.ErrMissingStart},
		{name: "bad window", field: "temp", query: iot.FieldDataQuery{Start: start, Window: 30}, wantErr: iot.ErrUnknownWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.FieldData(3, tt.field, tt.query)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    iot.Window
		wantErr bool
	}{
		{in: "raw", want: iot.WindowRaw},
		{in: "Minute", want: iot.WindowMinute},
		{in: "15min", want: iot.WindowFifteenMinutes},
		{in: "3600", want: iot.WindowHour},
		{in: "0", want: iot.WindowRaw},
		{in: "30", wantErr: true},
		{in: "daily", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := iot.ParseWindow(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, iot.ErrUnknownWindow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package ems_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrcrawfo/contxt-go/internal/api"
	"github.com/jrcrawfo/contxt-go/internal/ems"
	"github.com/jrcrawfo/contxt-go/internal/mapping"
	"github.com/jrcrawfo/contxt-go/internal/pagination"
)

const fieldJSON = `{"id": %d, "label": "Main", "output_id": 9, "field_descriptor": "kw", "field_human_name": "%s",
	"is_hidden": false, "status": "active", "units": "kW"}`

func mainServiceJSON(id int, typ string) string {
	return fmt.Sprintf(`{"id": %d, "facility_id": 42, "name": "Main %d", "type": %q,
		"demand_field_id": 1, "usage_field_id": 2,
		"demand_field": `+fieldJSON+`, "usage_field": `+fieldJSON+`,
		"created_at": "2021-01-01T00:00:00Z", "updated_at": "2021-01-01T00:00:00Z"}`,
		id, id, typ, 1, "demand", 2, "usage")
}

func facilityJSON(id int) string {
	return fmt.Sprintf(`{"id": %d, "name": "Plant %d", "asset_id": "a-%d", "organization_id": "o-1",
		"baseline": {"kwh": 10},
		"main_services": [%s, %s],
		"created_at": "2020-01-01T00:00:00Z", "updated_at": "2020-02-01T00:00:00Z"}`,
		id, id, id, mainServiceJSON(1, "electric"), mainServiceJSON(2, "gas"))
}

func newService(t *testing.T, mux *http.ServeMux, opts ...ems.ServiceOption) *ems.Service {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c, err := api.NewClient(srv.URL + "/v1")
	require.NoError(t, err)
	return ems.NewService(api.Pager{Client: c, Params: *pagination.NewParams()}, opts...)
}

func facilityHandler(w http.ResponseWriter, r *http.Request) {
	var id int
	if _, err := fmt.Sscanf(r.URL.Path, "/v1/facilities/%d", &id); err != nil || id == 404 {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(facilityJSON(id)))
}

func TestParseResourceType(t *testing.T) {
	tests := []struct {
		in      string
		want    ems.ResourceType
		wantErr bool
	}{
		{in: "electric", want: ems.Electric},
		{in: " Gas ", want: ems.Gas},
		{in: "WATER", want: ems.Water},
		{in: "steam", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ems.ParseResourceType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ems.ErrUnknownResourceType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Len(t, ems.ResourceTypes(), 4)
}

func TestGetFacility(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/facilities/", facilityHandler)
	svc := newService(t, mux)

	f, err := svc.GetFacility(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Plant 42", f.Name)
	assert.Equal(t, map[string]any{"kwh": "10"}, stringify(f.Baseline))
	require.Len(t, f.MainServices, 2)

	m := f.MainServices[0]
	assert.Equal(t, ems.Electric, m.ResourceType)
	require.NotNil(t, m.DemandField)
	require.NotNil(t, m.UsageField)
	assert.Equal(t, "demand", m.DemandField.FieldHumanName)
	assert.Equal(t, "usage", m.UsageField.FieldHumanName, "usage field is its own object")

	summary := f.Summary()
	assert.NotContains(t, summary.Names(), "main_services")
	assert.Equal(t, int64(2), summary.Int("main_service_count"))
	assert.NotContains(t, m.Summary().Names(), "demand_field")

	_, err = svc.GetFacility(context.Background(), 404)
	assert.True(t, api.IsNotFound(err))
}

// stringify renders json.Number leaves so map comparisons stay readable.
func stringify(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = stringify(item)
		}
		return out
	case fmt.Stringer:
		return t.String()
	default:
		return v
	}
}

func TestGetFacility_UnknownResourceType(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/facilities/1", func(w http.ResponseWriter, _ *http.Request) {
		body := strings.Replace(facilityJSON(1), `"type": "gas"`, `"type": "steam"`, 1)
		_, _ = w.Write([]byte(body))
	})
	svc := newService(t, mux)

	_, err := svc.GetFacility(context.Background(), 1)
	assert.ErrorIs(t, err, mapping.ErrUnknownEnumValue)
}

func TestGetFacilities_PreservesOrder(t *testing.T) {
	var inflight, peak atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/facilities/", func(w http.ResponseWriter, r *http.Request) {
		n := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		facilityHandler(w, r)
	})
	svc := newService(t, mux, ems.WithConcurrency(2))

	ids := []int64{5, 3, 9, 1, 7}
	facilities, err := svc.GetFacilities(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, facilities, len(ids))
	for i, f := range facilities {
		assert.Equal(t, ids[i], f.ID)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))

	_, err = svc.GetFacilities(context.Background(), []int64{1, 404, 2})
	assert.True(t, api.IsNotFound(err))
}

func TestGetMainServices_Filter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/facilities/", facilityHandler)
	svc := newService(t, mux)

	all, err := svc.GetMainServices(context.Background(), 42, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	gas, err := svc.GetMainServices(context.Background(), 42, ems.Gas)
	require.NoError(t, err)
	require.Len(t, gas, 1)
	assert.Equal(t, int64(2), gas[0].ID)

	water, err := svc.GetMainServices(context.Background(), 42, ems.Water)
	require.NoError(t, err)
	assert.Empty(t, water)
}

func TestGetMonthlyUtilitySpend_Defaults(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	var query map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/facilities/42/utility/spend/monthly", func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		_, _ = w.Write([]byte(`{"type": "electric", "currency": "USD", "values": [
			{"date": "2024-03", "value": 1200.5},
			{"date": "2024-04", "value": 980, "pro_forma_date": "2023-04"}
		]}`))
	})
	svc := newService(t, mux, ems.WithClock(func() time.Time { return now }))

	spend, err := svc.GetMonthlyUtilitySpend(context.Background(), 42, ems.MonthlyQuery{})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"type":                    "electric",
		"date_start":              now.Add(-ems.DefaultMonthlyLookback).Format("2006-01"),
		"date_end":                "2024-05",
		"pro_forma":               "false",
		"exclude_account_charges": "false",
	}, query)

	assert.Equal(t, "USD", spend.Currency)
	require.Len(t, spend.Periods, 2)
	assert.InDelta(t, 1200.5, spend.Periods[0].Value, 1e-9)
	assert.Empty(t, spend.Periods[0].ProFormaDate)
	assert.Equal(t, "2023-04", spend.Periods[1].ProFormaDate)
	assert.Len(t, spend.PeriodObjects(), 2)
}

func TestGetMonthlyUtilityUsage(t *testing.T) {
	var gotType, gotStart string
	var sawExclude bool
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/facilities/42/utility/usage/monthly", func(w http.ResponseWriter, r *http.Request) {
		gotType = r.URL.Query().Get("type")
		gotStart = r.URL.Query().Get("date_start")
		sawExclude = r.URL.Query().Has("exclude_account_charges")
		_, _ = w.Write([]byte(`{"type": "gas", "unit": "therm", "values": [{"date": "2024-01", "value": 3}]}`))
	})
	svc := newService(t, mux)

	usage, err := svc.GetMonthlyUtilityUsage(context.Background(), 42, ems.MonthlyQuery{
		ResourceType: ems.Gas,
		Start:        time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "gas", gotType)
	assert.Equal(t, "2023-01", gotStart)
	assert.False(t, sawExclude)
	assert.Equal(t, "therm", usage.Unit)
	assert.InDelta(t, 3.0, usage.Periods[0].Value, 1e-9)
}

func TestGetUsage(t *testing.T) {
	now := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	var gotStart, gotEnd string
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/facilities/42/usage/daily", func(w http.ResponseWriter, r *http.Request) {
		gotStart = r.URL.Query().Get("time_start")
		gotEnd = r.URL.Query().Get("time_end")
		_, _ = w.Write([]byte(`{"type": "electric", "unit": "kWh", "values": []}`))
	})
	svc := newService(t, mux, ems.WithClock(func() time.Time { return now }))

	usage, err := svc.GetUsage(context.Background(), 42, ems.UsageQuery{Interval: "daily"})
	require.NoError(t, err)
	assert.Empty(t, usage.Periods)
	assert.Equal(t, fmt.Sprint(now.Unix()), gotEnd)
	assert.Equal(t, fmt.Sprint(now.Add(-ems.DefaultUsageLookback).Unix()), gotStart)

	_, err = svc.GetUsage(context.Background(), 42, ems.UsageQuery{})
	assert.ErrorIs(t, err, ems.ErrMissingInterval)
}

func TestUtilityContractsForFacility(t *testing.T) {
	contract := func(id int, extra string) string {
		return fmt.Sprintf(`{"id": %d, "name": "Supply %d", "facility_id": 42, "status": "active",
			"start_date": "2023-01-01", "end_date": "2025-12-31", "rate_narrative": "fixed", "file_id": null,
			"created_at": "2022-12-01T00:00:00Z", "updated_at": "2022-12-01T00:00:00Z",
			"created_by": "u-1"%s}`, id, id, extra)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/facilities/42/contracts", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("offset") {
		case "0":
			fmt.Fprintf(w, `{"_metadata": {"offset": 0, "totalRecords": 2}, "records": [%s]}`,
				contract(1, `, "utility_contract_reminders": [{"utility_contract_id": 1, "user_id": "u-2",
					"user_event_subscription_id": "s-1", "created_at": "2023-01-01T00:00:00Z",
					"updated_at": "2023-01-01T00:00:00Z"}],
					"report_event_id": "e-1", "report_event": {"id": "e-1", "name": "Renewal"}`))
		default:
			fmt.Fprintf(w, `{"_metadata": {"offset": 1, "totalRecords": 2}, "records": [%s]}`, contract(2, ""))
		}
	})
	svc := newService(t, mux)

	contracts, err := svc.UtilityContractsForFacility(42).Drain(context.Background())
	require.NoError(t, err)
	require.Len(t, contracts, 2)

	first := contracts[0]
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), first.EndDate)
	require.Len(t, first.Reminders, 1)
	assert.Equal(t, "u-2", first.Reminders[0].UserID)
	require.NotNil(t, first.ReportEvent)
	assert.Equal(t, "Renewal", first.ReportEvent.Name)
	assert.Equal(t, int64(1), first.Summary().Int("reminder_count"))

	second := contracts[1]
	assert.Empty(t, second.Reminders)
	assert.Nil(t, second.ReportEvent)
	assert.Empty(t, second.FileID)
}

func TestGetMetricValues(t *testing.T) {
	const body = `{"a-1": {
		"peak_demand": [
			{"id": "mv-1", "asset_id": "a-1", "asset_metric_id": "m-1",
			 "effective_start_date": "2024-01-01", "effective_end_date": "2024-01-31",
			 "value": "512.5", "notes": null,
			 "created_at": "2024-02-01T00:00:00Z", "updated_at": "2024-02-01T00:00:00Z"},
			{"id": "mv-2", "asset_id": "a-1", "asset_metric_id": "m-1",
			 "effective_start_date": "2024-02-01", "effective_end_date": "2024-02-29",
			 "value": "498", "notes": "estimated",
			 "created_at": "2024-03-01T00:00:00Z", "updated_at": "2024-03-02T00:00:00Z"}
		],
		"other": []
	}}`

	var gotQuery map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/assets/metrics/values", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(body))
	})
	svc := newService(t, mux)

	values, err := svc.GetMetricValues(context.Background(), "a-1", "peak_demand", ems.MetricValueQuery{
		EffectiveStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, values, 2)

	assert.Equal(t, []string{"a-1"}, gotQuery["asset_ids"])
	assert.Equal(t, []string{"peak_demand"}, gotQuery["metric_labels"])
	assert.Equal(t, []string{"2024-01-01"}, gotQuery["effective_start_date"])
	assert.NotContains(t, gotQuery, "effective_end_date")

	assert.Equal(t, "512.5", values[0].Value)
	assert.Empty(t, values[0].Notes)
	assert.Equal(t, "estimated", values[1].Notes)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), values[1].EffectiveEndDate)
}

func TestGetMetricValues_Errors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/assets/metrics/values", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("metric_labels") {
		case "bad_record":
			_, _ = w.Write([]byte(`{"a-1": {"bad_record": [{"id": "mv-1"}]}}`))
		default:
			_, _ = w.Write([]byte(`{"a-1": {}}`))
		}
	})
	svc := newService(t, mux)

	tests := []struct {
		name    string
		asset   string
		label   string
		wantErr error
	}{
		{name: "no asset", label: "peak_demand", wantErr: ems.ErrMissingMetric},
		{name: "no label", asset: "a-1", wantErr: ems.ErrMissingMetric},
		{name: "label missing from response", asset: "a-1", label: "peak_demand", wantErr: api.ErrUnexpectedShape},
		{name: "unmappable value", asset: "a-1", label: "bad_record", wantErr: mapping.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetMetricValues(context.Background(), tt.asset, tt.label, ems.MetricValueQuery{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

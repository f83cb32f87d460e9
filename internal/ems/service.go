package ems

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jrcrawfo/contxt-go/internal/api"
	"github.com/jrcrawfo/contxt-go/internal/logging"
	"github.com/jrcrawfo/contxt-go/internal/mapping"
	"github.com/jrcrawfo/contxt-go/internal/pagination"
)

const (
	// DefaultMonthlyLookback is the furthest back the monthly utility
	// endpoints accept.
	DefaultMonthlyLookback = 3600 * 24 * time.Hour

	// DefaultUsageLookback is the default window of GetUsage.
	DefaultUsageLookback = 365 * 24 * time.Hour

	// DefaultConcurrency bounds parallel requests in GetFacilities.
	DefaultConcurrency = 4

	monthLayout = "2006-01"
)

// Service reads facilities, utility series and contracts from the EMS API.
type Service struct {
	pager       api.Pager
	now         func() time.Time
	concurrency int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock replaces time.Now for default date windows.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithConcurrency bounds parallel requests. Values below 1 are ignored.
func WithConcurrency(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService returns a service reading through pager.
func NewService(pager api.Pager, opts ...ServiceOption) *Service {
	s := &Service{pager: pager, now: time.Now, concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) fetch(ctx context.Context, spec *mapping.Spec, path string, params url.Values) (*mapping.Object, error) {
	rec, err := s.pager.Client.FetchSingle(ctx, path, params)
	if err != nil {
		return nil, err
	}
	obj, err := spec.Map(rec)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", spec.Name(), err)
	}
	return obj, nil
}

// GetFacility fetches one facility with its main services.
func (s *Service) GetFacility(ctx context.Context, facilityID int64) (*Facility, error) {
	obj, err := s.fetch(ctx, FacilitySpec, fmt.Sprintf("facilities/%d", facilityID), nil)
	if err != nil {
		return nil, fmt.Errorf("get facility %d: %w", facilityID, err)
	}
	return NewFacility(obj), nil
}

// GetFacilities fetches several facilities concurrently. The result follows
// the order of ids; the first failure cancels the remaining requests.
func (s *Service) GetFacilities(ctx context.Context, ids []int64) ([]*Facility, error) {
	log := logging.FromContext(ctx)
	out := make([]*Facility, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			f, err := s.GetFacility(gctx, id)
			if err != nil {
				return err
			}
			out[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().Ctx(ctx).
		Str("component", "ems").
		Int("facilities", len(out)).
		Int("concurrency", s.concurrency).
		Msg("facilities fetched")
	return out, nil
}

// GetMainServices returns the main services of a facility, keeping only
// those of resourceType when it is non-empty. The API has no filter, so
// this is applied after fetching the facility.
func (s *Service) GetMainServices(ctx context.Context, facilityID int64, resourceType ResourceType) ([]*MainService, error) {
	f, err := s.GetFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if resourceType == "" {
		return f.MainServices, nil
	}
	var out []*MainService
	for _, m := range f.MainServices {
		if m.ResourceType == resourceType {
			out = append(out, m)
		}
	}
	return out, nil
}

// MonthlyQuery selects a monthly utility series. Zero dates default to the
// maximum lookback ending today; an empty ResourceType means electric.
type MonthlyQuery struct {
	ResourceType          ResourceType
	Start                 time.Time
	End                   time.Time
	ProForma              bool
	ExcludeAccountCharges bool
}

func (s *Service) monthlyParams(q MonthlyQuery) url.Values {
	if q.ResourceType == "" {
		q.ResourceType = Electric
	}
	now := s.now()
	if q.End.IsZero() {
		q.End = now
	}
	if q.Start.IsZero() {
		q.Start = now.Add(-DefaultMonthlyLookback)
	}
	params := url.Values{}
	params.Set("type", q.ResourceType.String())
	params.Set("date_start", q.Start.Format(monthLayout))
	params.Set("date_end", q.End.Format(monthLayout))
	params.Set("pro_forma", strconv.FormatBool(q.ProForma))
	return params
}

// GetMonthlyUtilitySpend fetches the monthly spend series of a facility.
func (s *Service) GetMonthlyUtilitySpend(ctx context.Context, facilityID int64, q MonthlyQuery) (*UtilitySpend, error) {
	params := s.monthlyParams(q)
	params.Set("exclude_account_charges", strconv.FormatBool(q.ExcludeAccountCharges))

	obj, err := s.fetch(ctx, UtilitySpendSpec, fmt.Sprintf("facilities/%d/utility/spend/monthly", facilityID), params)
	if err != nil {
		return nil, fmt.Errorf("get monthly spend for facility %d: %w", facilityID, err)
	}
	return NewUtilitySpend(obj), nil
}

// GetMonthlyUtilityUsage fetches the monthly usage series of a facility.
func (s *Service) GetMonthlyUtilityUsage(ctx context.Context, facilityID int64, q MonthlyQuery) (*UtilityUsage, error) {
	obj, err := s.fetch(ctx, UtilityUsageSpec, fmt.Sprintf("facilities/%d/utility/usage/monthly", facilityID), s.monthlyParams(q))
	if err != nil {
		return nil, fmt.Errorf("get monthly usage for facility %d: %w", facilityID, err)
	}
	return NewUtilityUsage(obj), nil
}

// UsageQuery selects an interval usage series. Zero times default to the
// last year; an empty ResourceType means electric.
type UsageQuery struct {
	Interval     string
	ResourceType ResourceType
	Start        time.Time
	End          time.Time
}

// GetUsage fetches metered usage at the given interval (for example
// "hourly" or "daily").
func (s *Service) GetUsage(ctx context.Context, facilityID int64, q UsageQuery) (*UtilityUsage, error) {
	if q.Interval == "" {
		return nil, fmt.Errorf("get usage for facility %d: %w", facilityID, ErrMissingInterval)
	}
	if q.ResourceType == "" {
		q.ResourceType = Electric
	}
	now := s.now()
	if q.End.IsZero() {
		q.End = now
	}
	if q.Start.IsZero() {
		q.Start = now.Add(-DefaultUsageLookback)
	}
	params := url.Values{}
	params.Set("type", q.ResourceType.String())
	params.Set("time_start", strconv.FormatInt(q.Start.Unix(), 10))
	params.Set("time_end", strconv.FormatInt(q.End.Unix(), 10))

	path := fmt.Sprintf("facilities/%d/usage/%s", facilityID, q.Interval)
	obj, err := s.fetch(ctx, UtilityUsageSpec, path, params)
	if err != nil {
		return nil, fmt.Errorf("get %s usage for facility %d: %w", q.Interval, facilityID, err)
	}
	return NewUtilityUsage(obj), nil
}

// UtilityContractsForFacility lists the contracts of a facility lazily.
func (s *Service) UtilityContractsForFacility(facilityID int64) *pagination.Iterator[*UtilityContract] {
	path := fmt.Sprintf("facilities/%d/contracts", facilityID)
	seq := s.pager.Paginate(UtilityContractSpec, s.pager.Offset(path, nil))
	return pagination.Convert(seq, func(o *mapping.Object) (*UtilityContract, error) {
		return NewUtilityContract(o), nil
	})
}

// MetricValueQuery bounds metric values by effective date. Zero dates are
// not sent.
type MetricValueQuery struct {
	EffectiveStart time.Time
	EffectiveEnd   time.Time
}

// GetMetricValues fetches the values of one metric of an asset. The
// endpoint answers for several assets and labels at once, keyed by asset id
// then metric label; only the requested pair is read.
func (s *Service) GetMetricValues(ctx context.Context, assetID, metricLabel string, q MetricValueQuery) ([]*MetricValue, error) {
	if assetID == "" || metricLabel == "" {
		return nil, fmt.Errorf("get metric values: %w", ErrMissingMetric)
	}
	params := url.Values{}
	params.Set("asset_ids", assetID)
	params.Set("metric_labels", metricLabel)
	if !q.EffectiveStart.IsZero() {
		params.Set("effective_start_date", q.EffectiveStart.Format(mapping.DateLayout))
	}
	if !q.EffectiveEnd.IsZero() {
		params.Set("effective_end_date", q.EffectiveEnd.Format(mapping.DateLayout))
	}

	recs, err := s.pager.Client.FetchList(ctx, "assets/metrics/values", params, assetID, metricLabel)
	if err != nil {
		return nil, fmt.Errorf("get %s values for asset %s: %w", metricLabel, assetID, err)
	}
	out := make([]*MetricValue, 0, len(recs))
	for i, rec := range recs {
		obj, err := MetricValueSpec.Map(rec)
		if err != nil {
			return nil, fmt.Errorf("get %s values for asset %s: value %d: %w", metricLabel, assetID, i, err)
		}
		out = append(out, NewMetricValue(obj))
	}

	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).
		Str("component", "ems").
		Str("asset_id", assetID).
		Str("metric_label", metricLabel).
		Int("values", len(out)).
		Msg("metric values fetched")
	return out, nil
}

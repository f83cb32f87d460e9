package iot

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jrcrawfo/contxt-go/internal/api"
	"github.com/jrcrawfo/contxt-go/internal/logging"
	"github.com/jrcrawfo/contxt-go/internal/mapping"
	"github.com/jrcrawfo/contxt-go/internal/pagination"
)

// Service reads groupings, fields, feeds and field data from the IOT API.
type Service struct {
	pager api.Pager
}

// NewService returns a service reading through pager.
func NewService(pager api.Pager) *Service {
	return &Service{pager: pager}
}

// FieldGroupingsForFacility lists the groupings of a facility, page by page.
func (s *Service) FieldGroupingsForFacility(facilityID int64) *pagination.Iterator[*FieldGrouping] {
	path := fmt.Sprintf("facilities/%d/groupings", facilityID)
	seq := s.pager.Paginate(FieldGroupingSpec, s.pager.Offset(path, nil))
	return pagination.Convert(seq, func(o *mapping.Object) (*FieldGrouping, error) {
		return NewFieldGrouping(o), nil
	})
}

// GetFieldGrouping fetches one grouping by id.
func (s *Service) GetFieldGrouping(ctx context.Context, groupingID string) (*FieldGrouping, error) {
	if groupingID == "" {
		return nil, fmt.Errorf("get field grouping: %w", ErrEmptyID)
	}
	rec, err := s.pager.Client.FetchSingle(ctx, "groupings/"+url.PathEscape(groupingID), nil)
	if err != nil {
		return nil, fmt.Errorf("get field grouping %s: %w", groupingID, err)
	}
	obj, err := FieldGroupingSpec.Map(rec)
	if err != nil {
		return nil, fmt.Errorf("get field grouping %s: %w", groupingID, err)
	}

	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).
		Str("component", "iot").
		Str("grouping_id", groupingID).
		Int("field_count", len(obj.Objects("fields"))).
		Msg("field grouping fetched")
	return NewFieldGrouping(obj), nil
}

// Feeds lists feeds, restricted to one facility when facilityID is positive.
func (s *Service) Feeds(facilityID int64) *pagination.Iterator[*Feed] {
	params := url.Values{}
	if facilityID > 0 {
		params.Set("facility_id", strconv.FormatInt(facilityID, 10))
	}
	seq := s.pager.Paginate(FeedSpec, s.pager.Offset("feeds", params))
	return pagination.Convert(seq, func(o *mapping.Object) (*Feed, error) {
		return NewFeed(o), nil
	})
}

// FieldsForFacility lists every field reported at a facility.
func (s *Service) FieldsForFacility(facilityID int64) *pagination.Iterator[*Field] {
	path := fmt.Sprintf("facilities/%d/fields", facilityID)
	seq := s.pager.Paginate(FieldSpec, s.pager.Offset(path, nil))
	return pagination.Convert(seq, func(o *mapping.Object) (*Field, error) {
		return NewField(o), nil
	})
}

// FieldDataQuery selects a span of a field's time series. End may be zero
// for data up to now.
type FieldDataQuery struct {
	Start  time.Time
	End    time.Time
	Window Window
}

// FieldData streams the samples of one field of an output. The endpoint is
// cursor-paged; pages are requested as the iterator advances.
func (s *Service) FieldData(outputID int64, fieldHumanName string, q FieldDataQuery) (*pagination.Iterator[*FieldDatum], error) {
	if fieldHumanName == "" {
		return nil, fmt.Errorf("field data for output %d: %w", outputID, ErrEmptyID)
	}
	if q.Start.IsZero() {
		return nil, fmt.Errorf("field data for %s: %w", fieldHumanName, ErrMissingStart)
	}
	if !q.Window.valid() {
		return nil, fmt.Errorf("field data for %s: %w %d", fieldHumanName, ErrUnknownWindow, q.Window)
	}

	params := url.Values{}
	params.Set("timeStart", strconv.FormatInt(q.Start.Unix(), 10))
	params.Set("window", strconv.Itoa(q.Window.Seconds()))
	if !q.End.IsZero() {
		params.Set("timeEnd", strconv.FormatInt(q.End.Unix(), 10))
	}

	path := fmt.Sprintf("outputs/%d/fields/%s/data", outputID, url.PathEscape(fieldHumanName))
	seq := s.pager.Paginate(FieldDatumSpec, s.pager.Cursor(path, params))
	return pagination.Convert(seq, func(o *mapping.Object) (*FieldDatum, error) {
		return NewFieldDatum(o), nil
	}), nil
}

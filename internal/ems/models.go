package ems

import (
	"time"

	"github.com/jrcrawfo/contxt-go/internal/iot"
	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// MainService is a metered utility entry point of a facility.
type MainService struct {
	ID            int64
	FacilityID    int64
	Name          string
	ResourceType  ResourceType
	DemandFieldID int64
	UsageFieldID  int64
	DemandField   *iot.Field
	UsageField    *iot.Field
	CreatedAt     time.Time
	UpdatedAt     time.Time

	obj *mapping.Object
}

// NewMainService converts an object mapped with MainServiceSpec.
func NewMainService(o *mapping.Object) *MainService {
	return &MainService{
		ID:            o.Int("id"),
		FacilityID:    o.Int("facility_id"),
		Name:          o.Str("name"),
		ResourceType:  ResourceType(o.Str("resource_type")),
		DemandFieldID: o.Int("demand_field_id"),
		UsageFieldID:  o.Int("usage_field_id"),
		DemandField:   optionalField(o.Object("demand_field")),
		UsageField:    optionalField(o.Object("usage_field")),
		CreatedAt:     o.Time("created_at"),
		UpdatedAt:     o.Time("updated_at"),
		obj:           o,
	}
}

func optionalField(o *mapping.Object) *iot.Field {
	if o == nil {
		return nil
	}
	return iot.NewField(o)
}

// Object returns the mapped object.
func (m *MainService) Object() *mapping.Object { return m.obj }

// Summary drops the nested field objects so the service fits in a table.
func (m *MainService) Summary() *mapping.Object {
	return m.obj.Omit("demand_field", "usage_field")
}

// Facility is a site managed in EMS.
type Facility struct {
	ID             int64
	Name           string
	AssetID        string
	OrganizationID string
	Baseline       any
	MainServices   []*MainService
	CreatedAt      time.Time
	UpdatedAt      time.Time

	obj *mapping.Object
}

// NewFacility converts an object mapped with FacilitySpec.
func NewFacility(o *mapping.Object) *Facility {
	f := &Facility{
		ID:             o.Int("id"),
		Name:           o.Str("name"),
		AssetID:        o.Str("asset_id"),
		OrganizationID: o.Str("organization_id"),
		Baseline:       o.Value("baseline").Raw(),
		CreatedAt:      o.Time("created_at"),
		UpdatedAt:      o.Time("updated_at"),
		obj:            o,
	}
	for _, s := range o.Objects("main_services") {
		f.MainServices = append(f.MainServices, NewMainService(s))
	}
	return f
}

// Object returns the mapped object.
func (f *Facility) Object() *mapping.Object { return f.obj }

// Summary replaces the main service list with its length.
func (f *Facility) Summary() *mapping.Object {
	return f.obj.Omit("main_services", "baseline").
		With("main_service_count", mapping.IntValue(int64(len(f.MainServices))))
}

// UtilityPeriod is one month (or interval) of a spend or usage series.
type UtilityPeriod struct {
	Date         string
	Value        float64
	ProFormaDate string
}

func newPeriods(objs []*mapping.Object) []UtilityPeriod {
	out := make([]UtilityPeriod, 0, len(objs))
	for _, o := range objs {
		out = append(out, UtilityPeriod{
			Date:         o.Str("date"),
			Value:        o.Float("value"),
			ProFormaDate: o.Str("pro_forma_date"),
		})
	}
	return out
}

// UtilitySpend is a spend series in one currency.
type UtilitySpend struct {
	Type     string
	Currency string
	Periods  []UtilityPeriod

	obj *mapping.Object
}

// NewUtilitySpend converts an object mapped with UtilitySpendSpec.
func NewUtilitySpend(o *mapping.Object) *UtilitySpend {
	return &UtilitySpend{
		Type:     o.Str("type"),
		Currency: o.Str("currency"),
		Periods:  newPeriods(o.Objects("periods")),
		obj:      o,
	}
}

// Object returns the mapped object.
func (s *UtilitySpend) Object() *mapping.Object { return s.obj }

// PeriodObjects returns the periods as rows for tabular output.
func (s *UtilitySpend) PeriodObjects() []*mapping.Object {
	return s.obj.Objects("periods")
}

// UtilityUsage is a usage series in one unit.
type UtilityUsage struct {
	Type    string
	Unit    string
	Periods []UtilityPeriod

	obj *mapping.Object
}

// NewUtilityUsage converts an object mapped with UtilityUsageSpec.
func NewUtilityUsage(o *mapping.Object) *UtilityUsage {
	return &UtilityUsage{
		Type:    o.Str("type"),
		Unit:    o.Str("unit"),
		Periods: newPeriods(o.Objects("periods")),
		obj:     o,
	}
}

// Object returns the mapped object.
func (u *UtilityUsage) Object() *mapping.Object { return u.obj }

// PeriodObjects returns the periods as rows for tabular output.
func (u *UtilityUsage) PeriodObjects() []*mapping.Object {
	return u.obj.Objects("periods")
}

// UtilityContractReminder subscribes a user to a contract's renewal.
type UtilityContractReminder struct {
	UtilityContractID       int64
	UserID                  string
	UserEventSubscriptionID string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Event is the reporting event attached to a contract.
type Event struct {
	ID             string
	Name           string
	EventTypeID    string
	OrganizationID string
	FacilityID     int64
	OwnerID        string
	IsPublic       bool
	TopicArn       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      time.Time
}

// UtilityContract is a supply contract of a facility.
type UtilityContract struct {
	ID            int64
	Name          string
	FacilityID    int64
	Status        string
	StartDate     time.Time
	EndDate       time.Time
	RateNarrative string
	FileID        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
	Reminders     []UtilityContractReminder
	ReportEventID string
	ReportEvent   *Event

	obj *mapping.Object
}

// NewUtilityContract converts an object mapped with UtilityContractSpec.
func NewUtilityContract(o *mapping.Object) *UtilityContract {
	c := &UtilityContract{
		ID:            o.Int("id"),
		Name:          o.Str("name"),
		FacilityID:    o.Int("facility_id"),
		Status:        o.Str("status"),
		StartDate:     o.Time("start_date"),
		EndDate:       o.Time("end_date"),
		RateNarrative: o.Str("rate_narrative"),
		FileID:        o.Str("file_id"),
		CreatedAt:     o.Time("created_at"),
		UpdatedAt:     o.Time("updated_at"),
		CreatedBy:     o.Str("created_by"),
		ReportEventID: o.Str("report_event_id"),
		obj:           o,
	}
	for _, r := range o.Objects("utility_contract_reminders") {
		c.Reminders = append(c.Reminders, UtilityContractReminder{
			UtilityContractID:       r.Int("utility_contract_id"),
			UserID:                  r.Str("user_id"),
			UserEventSubscriptionID: r.Str("user_event_subscription_id"),
			CreatedAt:               r.Time("created_at"),
			UpdatedAt:               r.Time("updated_at"),
		})
	}
	if e := o.Object("report_event"); e != nil {
		c.ReportEvent = &Event{
			ID:             e.Str("id"),
			Name:           e.Str("name"),
			EventTypeID:    e.Str("event_type_id"),
			OrganizationID: e.Str("organization_id"),
			FacilityID:     e.Int("facility_id"),
			OwnerID:        e.Str("owner_id"),
			IsPublic:       e.Bool("is_public"),
			TopicArn:       e.Str("topic_arn"),
			CreatedAt:      e.Time("created_at"),
			UpdatedAt:      e.Time("updated_at"),
			DeletedAt:      e.Time("deleted_at"),
		}
	}
	return c
}

// Object returns the mapped object.
func (c *UtilityContract) Object() *mapping.Object { return c.obj }

// Summary drops the nested reminders and report event.
func (c *UtilityContract) Summary() *mapping.Object {
	return c.obj.Omit("utility_contract_reminders", "report_event").
		With("reminder_count", mapping.IntValue(int64(len(c.Reminders))))
}

// MetricValue is the value of an asset metric over an effective period.
type MetricValue struct {
	ID                 string
	AssetID            string
	AssetMetricID      string
	EffectiveStartDate time.Time
	EffectiveEndDate   time.Time
	Value              string
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	obj *mapping.Object
}

// NewMetricValue converts an object mapped with MetricValueSpec.
func NewMetricValue(o *mapping.Object) *MetricValue {
	return &MetricValue{
		ID:                 o.Str("id"),
		AssetID:            o.Str("asset_id"),
		AssetMetricID:      o.Str("asset_metric_id"),
		EffectiveStartDate: o.Time("effective_start_date"),
		EffectiveEndDate:   o.Time("effective_end_date"),
		Value:              o.Str("value"),
		Notes:              o.Str("notes"),
		CreatedAt:          o.Time("created_at"),
		UpdatedAt:          o.Time("updated_at"),
		obj:                o,
	}
}

// Object returns the mapped object.
func (v *MetricValue) Object() *mapping.Object { return v.obj }

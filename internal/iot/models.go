package iot

import (
	"time"

	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// Field is one measured value of an output.
type Field struct {
	ID              int64
	Label           string
	OutputID        int64
	FieldDescriptor string
	FieldHumanName  string
	IsHidden        bool
	Status          string
	Units           string

	obj *mapping.Object
}

// NewField converts an object mapped with FieldSpec.
func NewField(o *mapping.Object) *Field {
	return &Field{
		ID:              o.Int("id"),
		Label:           o.Str("label"),
		OutputID:        o.Int("output_id"),
		FieldDescriptor: o.Str("field_descriptor"),
		FieldHumanName:  o.Str("field_human_name"),
		IsHidden:        o.Bool("is_hidden"),
		Status:          o.Str("status"),
		Units:           o.Str("units"),
		obj:             o,
	}
}

// Object returns the mapped object.
func (f *Field) Object() *mapping.Object { return f.obj }

// FieldCategory groups fields by meaning.
type FieldCategory struct {
	ID               string
	Name             string
	Description      string
	OrganizationID   string
	ParentCategoryID string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	obj *mapping.Object
}

// NewFieldCategory converts an object mapped with FieldCategorySpec.
func NewFieldCategory(o *mapping.Object) *FieldCategory {
	if o == nil {
		return nil
	}
	return &FieldCategory{
		ID:               o.Str("id"),
		Name:             o.Str("name"),
		Description:      o.Str("description"),
		OrganizationID:   o.Str("organization_id"),
		ParentCategoryID: o.Str("parent_category_id"),
		CreatedAt:        o.Time("created_at"),
		UpdatedAt:        o.Time("updated_at"),
		obj:              o,
	}
}

// Object returns the mapped object.
func (c *FieldCategory) Object() *mapping.Object { return c.obj }

// FieldGroupingOwner is the user owning a grouping.
type FieldGroupingOwner struct {
	ID        string
	FirstName string
	LastName  string
}

// NewFieldGroupingOwner converts an object mapped with FieldGroupingOwnerSpec.
func NewFieldGroupingOwner(o *mapping.Object) *FieldGroupingOwner {
	if o == nil {
		return nil
	}
	return &FieldGroupingOwner{
		ID:        o.Str("id"),
		FirstName: o.Str("first_name"),
		LastName:  o.Str("last_name"),
	}
}

// FieldGrouping is a named set of fields at a facility.
type FieldGrouping struct {
	ID              string
	Label           string
	Slug            string
	Description     string
	FacilityID      int64
	OwnerID         string
	IsPublic        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	FieldCategoryID string
	Owner           *FieldGroupingOwner
	Category        *FieldCategory
	Fields          []*Field

	obj *mapping.Object
}

// NewFieldGrouping converts an object mapped with FieldGroupingSpec.
func NewFieldGrouping(o *mapping.Object) *FieldGrouping {
	g := &FieldGrouping{
		ID:              o.Str("id"),
		Label:           o.Str("label"),
		Slug:            o.Str("slug"),
		Description:     o.Str("description"),
		FacilityID:      o.Int("facility_id"),
		OwnerID:         o.Str("owner_id"),
		IsPublic:        o.Bool("is_public"),
		CreatedAt:       o.Time("created_at"),
		UpdatedAt:       o.Time("updated_at"),
		FieldCategoryID: o.Str("field_category_id"),
		Owner:           NewFieldGroupingOwner(o.Object("owner")),
		Category:        NewFieldCategory(o.Object("category")),
		obj:             o,
	}
	for _, f := range o.Objects("fields") {
		g.Fields = append(g.Fields, NewField(f))
	}
	return g
}

// Object returns the mapped object.
func (g *FieldGrouping) Object() *mapping.Object { return g.obj }

// Summary flattens the grouping into table columns: the scalar attributes,
// the category name and the number of fields.
func (g *FieldGrouping) Summary() *mapping.Object {
	categoryName := mapping.Null(mapping.KindString)
	if g.Category != nil {
		categoryName = mapping.StringValue(g.Category.Name)
	}
	// Every name is declared in FieldGroupingSpec.
	out, _ := g.obj.Select("id", "label", "slug", "description", "facility_id", "field_category_id")
	return out.
		With("field_category_name", categoryName).
		With("field_count", mapping.IntValue(int64(len(g.Fields))))
}

// Feed is a data source sending values for a facility.
type Feed struct {
	ID                int64
	FeedTypeID        int64
	DownAfter         int64
	Key               string
	FacilityID        int64
	Timezone          string
	Token             string
	Status            string
	DegradedThreshold float64
	CriticalThreshold float64
	StatusEventID     string
	CreatedAt         time.Time

	obj *mapping.Object
}

// NewFeed converts an object mapped with FeedSpec.
func NewFeed(o *mapping.Object) *Feed {
	return &Feed{
		ID:                o.Int("id"),
		FeedTypeID:        o.Int("feed_type_id"),
		DownAfter:         o.Int("down_after"),
		Key:               o.Str("key"),
		FacilityID:        o.Int("facility_id"),
		Timezone:          o.Str("timezone"),
		Token:             o.Str("token"),
		Status:            o.Str("status"),
		DegradedThreshold: o.Float("degraded_threshold"),
		CriticalThreshold: o.Float("critical_threshold"),
		StatusEventID:     o.Str("status_event_id"),
		CreatedAt:         o.Time("created_at"),
		obj:               o,
	}
}

// Object returns the mapped object. The token attribute is included.
func (f *Feed) Object() *mapping.Object { return f.obj }

// FieldDatum is one sample of a field's time series. Value is reported as
// text; it is empty when the sample carries no value.
type FieldDatum struct {
	EventTime time.Time
	Value     string

	obj *mapping.Object
}

// NewFieldDatum converts an object mapped with FieldDatumSpec.
func NewFieldDatum(o *mapping.Object) *FieldDatum {
	return &FieldDatum{
		EventTime: o.Time("event_time"),
		Value:     o.Str("value"),
		obj:       o,
	}
}

// Object returns the mapped object.
func (d *FieldDatum) Object() *mapping.Object { return d.obj }

// Package iot is the client for the Contxt IOT (feeds) service: field
// groupings, fields, feeds and field time series.
package iot

import "github.com/jrcrawfo/contxt-go/internal/mapping"

// Response shapes of the IOT service.
//
//nolint:gochecknoglobals // Specs are immutable after construction.
var (
	FieldSpec = mapping.MustSpec("Field",
		mapping.Int("id"),
		mapping.String("label"),
		mapping.Int("output_id"),
		mapping.String("field_descriptor"),
		mapping.String("field_human_name"),
		mapping.Bool("is_hidden"),
		mapping.String("status"),
		mapping.String("units"),
	)

	FieldCategorySpec = mapping.MustSpec("FieldCategory",
		mapping.String("id"),
		mapping.String("name"),
		mapping.String("description"),
		mapping.String("organization_id"),
		mapping.String("parent_category_id"),
		mapping.DateTime("created_at"),
		mapping.DateTime("updated_at"),
	)

	FieldGroupingOwnerSpec = mapping.MustSpec("FieldGroupingOwner",
		mapping.String("id"),
		mapping.String("first_name"),
		mapping.String("last_name"),
	)

	FieldGroupingSpec = mapping.MustSpec("FieldGrouping",
		mapping.String("id"),
		mapping.String("label"),
		mapping.String("slug"),
		mapping.String("description"),
		mapping.Int("facility_id"),
		mapping.String("owner_id"),
		mapping.Bool("is_public"),
		mapping.DateTime("created_at"),
		mapping.DateTime("updated_at"),
		mapping.String("field_category_id"),
		mapping.ObjectOf("Owner", FieldGroupingOwnerSpec).As("owner"),
		mapping.ObjectOf("FieldCategory", FieldCategorySpec).As("category"),
		mapping.ObjectOf("Fields", FieldSpec).Many().As("fields"),
	)

	FeedSpec = mapping.MustSpec("Feed",
		mapping.Int("id"),
		mapping.Int("feed_type_id"),
		mapping.Int("down_after"),
		mapping.String("key"),
		mapping.Int("facility_id"),
		mapping.String("timezone"),
		mapping.String("token"),
		mapping.String("status"),
		mapping.Float("degraded_threshold"),
		mapping.Float("critical_threshold"),
		mapping.String("status_event_id"),
		mapping.DateTime("created_at"),
	)

	FieldDatumSpec = mapping.MustSpec("FieldDatum",
		mapping.DateTime("event_time"),
		mapping.String("value").Optional(),
	)
)

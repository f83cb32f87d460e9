package ems

import (
	"github.com/jrcrawfo/contxt-go/internal/iot"
	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// Response shapes of the EMS service.
//
//nolint:gochecknoglobals // Specs are immutable after construction.
var (
	MainServiceSpec = mapping.MustSpec("MainService",
		mapping.Int("id"),
		mapping.Int("facility_id"),
		mapping.String("name"),
		mapping.EnumOf("type", resourceTypes).As("resource_type"),
		mapping.Int("demand_field_id"),
		mapping.Int("usage_field_id"),
		mapping.ObjectOf("demand_field", iot.FieldSpec),
		mapping.ObjectOf("usage_field", iot.FieldSpec),
		mapping.DateTime("created_at"),
		mapping.DateTime("updated_at"),
	)

	FacilitySpec = mapping.MustSpec("Facility",
		mapping.Int("id"),
		mapping.String("name"),
		mapping.String("asset_id"),
		mapping.String("organization_id"),
		mapping.Any("baseline"),
		mapping.ObjectOf("main_services", MainServiceSpec).Many(),
		mapping.DateTime("created_at"),
		mapping.DateTime("updated_at"),
	)

	UtilityPeriodSpec = mapping.MustSpec("UtilityPeriod",
		mapping.String("date"),
		mapping.Float("value"),
		mapping.String("pro_forma_date").Optional(),
	)

	UtilitySpendSpec = mapping.MustSpec("UtilitySpend",
		mapping.String("type"),
		mapping.String("currency"),
		mapping.ObjectOf("values", UtilityPeriodSpec).Many().As("periods"),
	)

	UtilityUsageSpec = mapping.MustSpec("UtilityUsage",
		mapping.String("type"),
		mapping.String("unit"),
		mapping.ObjectOf("values", UtilityPeriodSpec).Many().As("periods"),
	)

	UtilityContractReminderSpec = mapping.MustSpec("UtilityContractReminder",
		mapping.Int("utility_contract_id"),
		mapping.String("user_id"),
		mapping.String("user_event_subscription_id"),
		mapping.DateTime("created_at"),
		mapping.DateTime("updated_at"),
	)

	EventSpec = mapping.MustSpec("Event",
		mapping.String("id"),
		mapping.String("name"),
		mapping.String("event_type_id").Optional(),
		mapping.String("organization_id").Optional(),
		mapping.Int("facility_id").Optional(),
		mapping.String("owner_id").Optional(),
		mapping.Bool("is_public").Optional(),
		mapping.String("topic_arn").Optional(),
		mapping.DateTime("created_at").Optional(),
		mapping.DateTime("updated_at").Optional(),
		mapping.DateTime("deleted_at").Optional(),
	)

	UtilityContractSpec = mapping.MustSpec("UtilityContract",
		mapping.Int("id"),
		mapping.String("name"),
		mapping.Int("facility_id"),
		mapping.String("status"),
		mapping.Date("start_date"),
		mapping.Date("end_date"),
		mapping.String("rate_narrative"),
		mapping.String("file_id"),
		mapping.DateTime("created_at"),
		mapping.DateTime("updated_at"),
		mapping.String("created_by"),
		mapping.ObjectOf("utility_contract_reminders", UtilityContractReminderSpec).Many().Optional(),
		mapping.String("report_event_id").Optional(),
		mapping.ObjectOf("report_event", EventSpec).Optional(),
	)

	MetricValueSpec = mapping.MustSpec("MetricValue",
		mapping.String("id"),
		mapping.String("asset_id"),
		mapping.String("asset_metric_id"),
		mapping.Date("effective_start_date"),
		mapping.Date("effective_end_date"),
		mapping.String("value"),
		mapping.String("notes").Optional(),
		mapping.DateTime("created_at"),
		mapping.DateTime("updated_at"),
	)
)

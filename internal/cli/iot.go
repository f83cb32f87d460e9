package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrcrawfo/contxt-go/internal/iot"
	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// newIOTCmd creates the iot command group.
func newIOTCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "iot", Short: "IOT: field groupings, fields, feeds and field data"}
	cmd.AddCommand(
		newIOTGroupingsCmd(opts), newIOTGroupingCmd(opts),
		newIOTFeedsCmd(opts), newIOTFieldsCmd(opts), newIOTFieldDataCmd(opts),
	)
	return cmd
}

func newIOTGroupingsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "groupings FACILITY_ID",
		Short: "List the field groupings of a facility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.iotService()
			if err != nil {
				return err
			}
			return renderIter(cmd, opts, svc.FieldGroupingsForFacility(id), (*iot.FieldGrouping).Summary)
		},
	}
}

func newIOTGroupingCmd(opts *rootOptions) *cobra.Command {
	var showFields bool
	cmd := &cobra.Command{
		Use:   "grouping GROUPING_ID",
		Short: "Show one field grouping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.iotService()
			if err != nil {
				return err
			}
			g, err := svc.GetFieldGrouping(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !showFields {
				return opts.render(cmd, []*mapping.Object{g.Summary()})
			}
			rows := make([]*mapping.Object, 0, len(g.Fields))
			for _, f := range g.Fields {
				rows = append(rows, f.Object())
			}
			return opts.render(cmd, rows)
		},
	}
	cmd.Flags().BoolVar(&showFields, "fields", false, "list the grouping's fields instead of its summary")
	return cmd
}

func newIOTFeedsCmd(opts *rootOptions) *cobra.Command {
	var (
		facility  int64
		showToken bool
	)
	cmd := &cobra.Command{
		Use:   "feeds",
		Short: "List feeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.iotService()
			if err != nil {
				return err
			}
			return renderIter(cmd, opts, svc.Feeds(facility), func(f *iot.Feed) *mapping.Object {
				if showToken {
					return f.Object()
				}
				return f.Object().Omit("token")
			})
		},
	}
	cmd.Flags().Int64Var(&facility, "facility", 0, "only feeds of this facility")
	cmd.Flags().BoolVar(&showToken, "show-token", false, "include the feed token column")
	return cmd
}

func newIOTFieldsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fields FACILITY_ID",
		Short: "List the fields of a facility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.iotService()
			if err != nil {
				return err
			}
			return renderIter(cmd, opts, svc.FieldsForFacility(id), (*iot.Field).Object)
		},
	}
}

func newIOTFieldDataCmd(opts *rootOptions) *cobra.Command {
	var start, end, window string
	cmd := &cobra.Command{
		Use:   "field-data OUTPUT_ID FIELD_HUMAN_NAME",
		Short: "Stream the time series of a field",
		Args:  cobra.ExactArgs(2),
		Example: `  # One day of temperature at fifteen minute resolution
  contxt iot field-data 3 temperature --start 2024-03-01 --end 2024-03-02 --window 15min --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			q := iot.FieldDataQuery{}
			if q.Window, err = iot.ParseWindow(window); err != nil {
				return err
			}
			if q.Start, err = parseTime("start", start); err != nil {
				return err
			}
			if q.End, err = parseTime("end", end); err != nil {
				return err
			}
			if !q.End.IsZero() && q.End.Before(q.Start) {
				return fmt.Errorf("--end %s is before --start %s", end, start)
			}
			svc, err := opts.iotService()
			if err != nil {
				return err
			}
			it, err := svc.FieldData(id, args[1], q)
			if err != nil {
				return err
			}
			return renderIter(cmd, opts, it, (*iot.FieldDatum).Object)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first sample time, YYYY-MM-DD or RFC 3339 (required)")
	cmd.Flags().StringVar(&end, "end", "", "last sample time (default: now)")
	cmd.Flags().StringVar(&window, "window", "raw", "aggregation window: raw, minute, 15min or hour")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

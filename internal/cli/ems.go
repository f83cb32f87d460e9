package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jrcrawfo/contxt-go/internal/ems"
	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

const monthFlagLayout = "2006-01"

// newEMSCmd creates the ems command group.
func newEMSCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "ems", Short: "Energy management: facilities, utility spend and usage, contracts"}
	cmd.AddCommand(
		newEMSFacilityCmd(opts), newEMSMainsCmd(opts), newEMSContractsCmd(opts),
		newEMSSpendCmd(opts), newEMSUsageCmd(opts), newEMSMetricValuesCmd(opts),
	)
	return cmd
}

func newEMSFacilityCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "facility FACILITY_ID [FACILITY_ID...]",
		Short: "Show facilities",
		Args:  cobra.MinimumNArgs(1),
		Example: `  # Show two facilities
  contxt ems facility 42 57`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			svc, err := opts.emsService()
			if err != nil {
				return err
			}
			facilities, err := svc.GetFacilities(cmd.Context(), ids)
			if err != nil {
				return err
			}
			rows := make([]*mapping.Object, 0, len(facilities))
			for _, f := range facilities {
				rows = append(rows, f.Summary())
			}
			return opts.render(cmd, rows)
		},
	}
}

func newEMSMainsCmd(opts *rootOptions) *cobra.Command {
	var resourceType string
	cmd := &cobra.Command{
		Use:   "mains FACILITY_ID",
		Short: "List the main services of a facility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var rt ems.ResourceType
			if resourceType != "" {
				if rt, err = ems.ParseResourceType(resourceType); err != nil {
					return err
				}
			}
			svc, err := opts.emsService()
			if err != nil {
				return err
			}
			mains, err := svc.GetMainServices(cmd.Context(), id, rt)
			if err != nil {
				return err
			}
			rows := make([]*mapping.Object, 0, len(mains))
			for _, m := range mains {
				rows = append(rows, m.Summary())
			}
			return opts.render(cmd, rows)
		},
	}
	cmd.Flags().StringVar(&resourceType, "type", "", "only services of this resource type (combined, electric, gas, water)")
	return cmd
}

func newEMSContractsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "contracts FACILITY_ID",
		Short: "List the utility contracts of a facility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.emsService()
			if err != nil {
				return err
			}
			return renderIter(cmd, opts, svc.UtilityContractsForFacility(id), (*ems.UtilityContract).Summary)
		},
	}
}

// monthlyFlags are shared by the spend and usage commands.
type monthlyFlags struct {
	resourceType string
	start        string
	end          string
	proForma     bool
}

func (f *monthlyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.resourceType, "type", string(ems.Electric), "resource type (combined, electric, gas, water)")
	cmd.Flags().StringVar(&f.start, "start", "", "first month, YYYY-MM (default: ten years ago)")
	cmd.Flags().StringVar(&f.end, "end", "", "last month, YYYY-MM (default: this month)")
	cmd.Flags().BoolVar(&f.proForma, "pro-forma", false, "include pro forma adjustments")
}

func (f *monthlyFlags) query() (ems.MonthlyQuery, error) {
	rt, err := ems.ParseResourceType(f.resourceType)
	if err != nil {
		return ems.MonthlyQuery{}, err
	}
	q := ems.MonthlyQuery{ResourceType: rt, ProForma: f.proForma}
	if q.Start, err = parseMonth("start", f.start); err != nil {
		return ems.MonthlyQuery{}, err
	}
	if q.End, err = parseMonth("end", f.end); err != nil {
		return ems.MonthlyQuery{}, err
	}
	if !q.Start.IsZero() && !q.End.IsZero() && q.End.Before(q.Start) {
		return ems.MonthlyQuery{}, fmt.Errorf("--end %s is before --start %s", f.end, f.start)
	}
	return q, nil
}

func parseMonth(flag, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(monthFlagLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: expected YYYY-MM", flag, v)
	}
	return t, nil
}

// parseTime reads a --flag value given as YYYY-MM-DD or RFC 3339. Dates
// are taken as UTC midnight.
func parseTime(flag, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{mapping.DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD or RFC 3339", flag, v)
}

func newEMSSpendCmd(opts *rootOptions) *cobra.Command {
	var (
		flags          monthlyFlags
		excludeCharges bool
	)
	cmd := &cobra.Command{
		Use:   "spend FACILITY_ID",
		Short: "Show monthly utility spend of a facility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			q, err := flags.query()
			if err != nil {
				return err
			}
			q.ExcludeAccountCharges = excludeCharges
			svc, err := opts.emsService()
			if err != nil {
				return err
			}
			spend, err := svc.GetMonthlyUtilitySpend(cmd.Context(), id, q)
			if err != nil {
				return err
			}
			logger.Debug().Ctx(cmd.Context()).
				Str("currency", spend.Currency).
				Int("periods", len(spend.Periods)).
				Msg("spend fetched")
			return opts.render(cmd, spend.PeriodObjects())
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&excludeCharges, "exclude-account-charges", false, "leave account level charges out")
	return cmd
}

func newEMSUsageCmd(opts *rootOptions) *cobra.Command {
	var (
		flags    monthlyFlags
		interval string
	)
	cmd := &cobra.Command{
		Use:   "usage FACILITY_ID",
		Short: "Show utility usage of a facility",
		Long: `Shows utility usage of a facility. The monthly interval reads the utility
bill series; any other interval reads metered usage over the last year.`,
		Args: cobra.ExactArgs(1),
		Example: `  # Monthly gas usage since 2022
  contxt ems usage 42 --type gas --start 2022-01

  # Daily metered electric usage
  contxt ems usage 42 --interval daily`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			q, err := flags.query()
			if err != nil {
				return err
			}
			svc, err := opts.emsService()
			if err != nil {
				return err
			}

			var usage *ems.UtilityUsage
			if interval == "monthly" {
				usage, err = svc.GetMonthlyUtilityUsage(cmd.Context(), id, q)
			} else {
				usage, err = svc.GetUsage(cmd.Context(), id, ems.UsageQuery{
					Interval:     interval,
					ResourceType: q.ResourceType,
					Start:        q.Start,
					End:          q.End,
				})
			}
			if err != nil {
				return err
			}
			return opts.render(cmd, usage.PeriodObjects())
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&interval, "interval", "monthly", "monthly, or a metered interval such as hourly or daily")
	return cmd
}

func newEMSMetricValuesCmd(opts *rootOptions) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "metric-values ASSET_ID METRIC_LABEL",
		Short: "Show the values of an asset metric",
		Args:  cobra.ExactArgs(2),
		Example: `  # Peak demand values effective in 2024
  contxt ems metric-values 3f1c8a peak_demand --start 2024-01-01 --end 2024-12-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				q   ems.MetricValueQuery
				err error
			)
			if q.EffectiveStart, err = parseTime("start", start); err != nil {
				return err
			}
			if q.EffectiveEnd, err = parseTime("end", end); err != nil {
				return err
			}
			svc, err := opts.emsService()
			if err != nil {
				return err
			}
			values, err := svc.GetMetricValues(cmd.Context(), args[0], args[1], q)
			if err != nil {
				return err
			}
			rows := make([]*mapping.Object, 0, len(values))
			for _, v := range values {
				rows = append(rows, v.Object())
			}
			return opts.render(cmd, rows)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "earliest effective date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "latest effective date, YYYY-MM-DD")
	return cmd
}

package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jrcrawfo/contxt-go/internal/config"
	"github.com/jrcrawfo/contxt-go/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// rootOptions holds the persistent flags and the state loaded from them
// before a subcommand runs.
type rootOptions struct {
	configPath string
	env        string
	format     string
	output     string
	pageSize   int
	limit      int
	noCache    bool
	debug      bool

	cfg       *config.Config
	logResult *logging.LogPathResult
}

// NewRootCmd creates the root Cobra command for the contxt CLI.
// It loads configuration, wires up logging and tracing, and registers the
// ems, iot, cache and config command groups.
func NewRootCmd(ver string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "contxt",
		Short:         "Contxt command line client",
		Long:          "contxt: query Contxt EMS and IOT services and render the results as tables, CSV or JSON",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			result := setupLogging(cmd, cfg, opts.debug)
			opts.logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, opts.logResult)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.StringVar(&opts.configPath, "config", "", "config file (default $CONTXT_HOME/config.yaml or ~/.contxt/config.yaml)")
	flags.StringVar(&opts.env, "env", "", "service environment: production or staging (overrides config)")
	flags.StringVarP(&opts.format, "format", "f", "", "output format: table, csv, json or ndjson (overrides config)")
	flags.StringVarP(&opts.output, "output", "o", "", "write results to a file instead of stdout (.gz compresses)")
	flags.IntVar(&opts.pageSize, "page-size", 0, "records requested per page (0 = use config)")
	flags.IntVar(&opts.limit, "limit", 0, "stop after this many records (0 = no limit)")
	flags.BoolVar(&opts.noCache, "no-cache", false, "bypass the page cache")

	cmd.AddCommand(newEMSCmd(opts), newIOTCmd(opts), newCacheCmd(opts), newConfigCmd(opts))

	return cmd
}

const rootCmdExample = `  # Show a facility and its main services
  contxt ems facility 42

  # List electric main services as CSV
  contxt ems mains 42 --type electric --format csv

  # Export ten years of monthly spend to a compressed CSV file
  contxt ems spend 42 --output spend.csv.gz

  # List the field groupings of a facility against staging
  contxt iot groupings 42 --env staging

  # Stream every feed as newline-delimited JSON
  contxt iot feeds --format ndjson

  # Initialize configuration
  contxt config init`

// newConfigCmd creates the config command group.
func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(opts), NewConfigValidateCmd(opts))
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/jrcrawfo/contxt-go/internal/config"
)

// NewConfigValidateCmd creates the config validate command. Loading already
// validates, so reaching RunE means the configuration is usable.
func NewConfigValidateCmd(opts *rootOptions) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file together with CONTXT_* environment
overrides: known environment, base URLs, output format, page size and cache
settings.`,
		Example: `  # Validate current configuration
  contxt config validate

  # Validate and show the resolved service endpoints
  contxt config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			for _, name := range []string{config.ServiceEMS, config.ServiceIOT} {
				if _, err := cfg.Service(name); err != nil {
					cmd.Printf("Warning: %v\n", err)
				}
			}
			cmd.Printf("Configuration is valid\n")

			if verbose {
				printVerboseDetails(cmd, cfg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Printf("\nEnvironment: %s\n", cfg.Environment)
	for _, name := range []string{config.ServiceEMS, config.ServiceIOT} {
		if svc, err := cfg.Service(name); err == nil {
			cmd.Printf("  %s: %s\n", name, svc.BaseURL)
		}
	}
	cmd.Printf("Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("Page size: %d (max empty pages %d)\n", cfg.Pagination.PageSize, cfg.Pagination.MaxEmptyPages)
	cmd.Printf("Cache enabled: %t\n", cfg.Cache.Enabled)
	cmd.Printf("Token variable: %s\n", cfg.Auth.TokenEnv)
}

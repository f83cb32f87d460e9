package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrcrawfo/contxt-go/internal/api"
	"github.com/jrcrawfo/contxt-go/internal/config"
	"github.com/jrcrawfo/contxt-go/internal/ems"
	"github.com/jrcrawfo/contxt-go/internal/iot"
	"github.com/jrcrawfo/contxt-go/internal/pagination"
	"github.com/jrcrawfo/contxt-go/pkg/version"
)

// loadConfig reads the config file and environment, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("env") {
		cfg.Environment = opts.env
	}
	if flags.Changed("format") {
		if !config.ValidFormat(opts.format) {
			return nil, fmt.Errorf("%w: got %q", config.ErrInvalidFormat, opts.format)
		}
		cfg.Output.DefaultFormat = opts.format
	}
	if flags.Changed("page-size") {
		cfg.Pagination.PageSize = opts.pageSize
	}
	if opts.noCache {
		cfg.Cache.Enabled = false
	}
	if opts.limit < 0 {
		return nil, fmt.Errorf("%w: got %d", pagination.ErrInvalidLimit, opts.limit)
	}
	if err := cfg.PaginationParams().Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pager builds the client, page cache and walk parameters for one service.
func (o *rootOptions) pager(service string) (api.Pager, error) {
	svc, err := o.cfg.Service(service)
	if err != nil {
		return api.Pager{}, err
	}
	client, err := api.NewClient(svc.BaseURL,
		api.WithTokenSource(api.EnvToken(o.cfg.Auth.TokenEnv)),
		api.WithUserAgent("contxt-go/"+version.GetVersion()),
	)
	if err != nil {
		return api.Pager{}, err
	}
	store, err := o.cfg.Cache.NewStore()
	if err != nil {
		return api.Pager{}, fmt.Errorf("opening page cache: %w", err)
	}

	params := o.cfg.PaginationParams()
	params.Limit = o.limit
	return api.Pager{Client: client, Store: store, Params: params}, nil
}

func (o *rootOptions) emsService() (*ems.Service, error) {
	p, err := o.pager(config.ServiceEMS)
	if err != nil {
		return nil, err
	}
	return ems.NewService(p), nil
}

func (o *rootOptions) iotService() (*iot.Service, error) {
	p, err := o.pager(config.ServiceIOT)
	if err != nil {
		return nil, err
	}
	return iot.NewService(p), nil
}

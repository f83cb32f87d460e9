// Package config loads contxt settings from ~/.contxt/config.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jrcrawfo/contxt-go/internal/cache"
	"github.com/jrcrawfo/contxt-go/internal/logging"
	"github.com/jrcrawfo/contxt-go/internal/pagination"
)

// Environment names.
const (
	EnvProduction = "production"
	EnvStaging    = "staging"
)

// Service names.
const (
	ServiceEMS = "ems"
	ServiceIOT = "iot"
)

// Output formats.
const (
	FormatTable  = "table"
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// DefaultTokenEnv names the variable holding the bearer token.
const DefaultTokenEnv = "CONTXT_TOKEN"

// Config errors.
var (
	ErrUnknownService     = errors.New("unknown service")
	ErrUnknownEnvironment = errors.New("unknown environment")
	ErrInvalidFormat      = errors.New("output format must be one of table, csv, json, ndjson")
)

// ServiceConfig addresses one service in one environment.
type ServiceConfig struct {
	BaseURL  string `yaml:"base_url"`
	Audience string `yaml:"audience"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	RowCount      bool   `yaml:"row_count"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// CacheConfig controls the page cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	Directory  string `yaml:"directory"`
}

// PaginationConfig controls collection walks.
type PaginationConfig struct {
	PageSize      int `yaml:"page_size"`
	MaxEmptyPages int `yaml:"max_empty_pages"`
}

// AuthConfig names where the bearer token comes from.
type AuthConfig struct {
	TokenEnv string `yaml:"token_env"`
}

// Config is the full contxt configuration.
type Config struct {
	Environment string                              `yaml:"environment"`
	Services    map[string]map[string]ServiceConfig `yaml:"services"`
	Output      OutputConfig                        `yaml:"output"`
	Logging     LoggingConfig                       `yaml:"logging"`
	Cache       CacheConfig                         `yaml:"cache"`
	Pagination  PaginationConfig                    `yaml:"pagination"`
	Auth        AuthConfig                          `yaml:"auth"`
}

// New returns the default configuration.
func New() *Config {
	cacheDir := ""
	if dir, err := Dir(); err == nil {
		cacheDir = filepath.Join(dir, "cache")
	}
	return &Config{
		Environment: EnvProduction,
		Services: map[string]map[string]ServiceConfig{
			ServiceEMS: {
				EnvProduction: {
					BaseURL:  "https://ems.api.ndustrial.io/v1",
					Audience: "e2IT0Zm9RgGlDBkLa2ruEcN9Iop6dJAS",
				},
				EnvStaging: {
					BaseURL:  "https://ems.staging.api.ndustrial.io/v1",
					Audience: "vMV67yaRFgjBB1JFbT3vXBOlohFdG1I4",
				},
			},
			ServiceIOT: {
				EnvProduction: {
					BaseURL:  "https://feeds.api.ndustrial.io/",
					Audience: "iznTb30Sfp2Jpaf398I5DN6MyPuDCftA",
				},
			},
		},
		Output: OutputConfig{DefaultFormat: FormatTable},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: logging.FormatConsole,
		},
		Cache: CacheConfig{
			Enabled:    false,
			TTLSeconds: cache.DefaultTTLSeconds,
			MaxSizeMB:  cache.DefaultMaxSizeMB,
			Directory:  cacheDir,
		},
		Pagination: PaginationConfig{
			PageSize:      pagination.DefaultPageSize,
			MaxEmptyPages: pagination.DefaultMaxEmptyPages,
		},
		Auth: AuthConfig{TokenEnv: DefaultTokenEnv},
	}
}

// Dir returns the contxt configuration directory: $CONTXT_HOME or ~/.contxt.
func Dir() (string, error) {
	if home := os.Getenv("CONTXT_HOME"); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".contxt"), nil
}

// DefaultPath returns the path of the config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load builds the configuration: defaults, then the file at path (the
// default path when empty; a missing file is not an error), then the
// environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking config file %s: %w", path, err)
	}

	ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Service returns the settings of the named service in the configured
// environment.
func (c *Config) Service(name string) (ServiceConfig, error) {
	envs, ok := c.Services[name]
	if !ok {
		return ServiceConfig{}, fmt.Errorf("%w: %q", ErrUnknownService, name)
	}
	svc, ok := envs[c.Environment]
	if !ok {
		return ServiceConfig{}, fmt.Errorf("%w: %q for service %s (available: %s)",
			ErrUnknownEnvironment, c.Environment, name, strings.Join(sortedKeys(envs), ", "))
	}
	return svc, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Environment == "" {
		errs = append(errs, fmt.Errorf("%w: empty", ErrUnknownEnvironment))
	}
	for name, envs := range c.Services {
		for env, svc := range envs {
			if svc.BaseURL == "" {
				errs = append(errs, fmt.Errorf("services.%s.%s: base_url is required", name, env))
			}
		}
	}
	if !ValidFormat(c.Output.DefaultFormat) {
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Output.DefaultFormat))
	}
	if err := c.PaginationParams().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Cache.Enabled {
		if err := cache.ValidateTTL(c.Cache.TTLSeconds); err != nil {
			errs = append(errs, err)
		}
		if c.Cache.Directory == "" {
			errs = append(errs, errors.New("cache.directory is required when the cache is enabled"))
		}
	}
	return errors.Join(errs...)
}

// ValidFormat reports whether f names a supported output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatTable, FormatCSV, FormatJSON, FormatNDJSON:
		return true
	default:
		return false
	}
}

// PaginationParams converts the pagination section.
func (c *Config) PaginationParams() pagination.Params {
	return pagination.Params{
		PageSize:      c.Pagination.PageSize,
		MaxEmptyPages: c.Pagination.MaxEmptyPages,
	}
}

// ToLoggingConfig converts the logging section for the logging package.
// A configured file switches output to the file.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// NewStore opens the page cache described by the cache section.
func (cc CacheConfig) NewStore() (*cache.FileStore, error) {
	return cache.NewFileStore(cc.Directory, cc.Enabled, cc.TTLSeconds, cc.MaxSizeMB)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

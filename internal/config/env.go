package config

import (
	"os"
	"strconv"

	"github.com/jrcrawfo/contxt-go/internal/cache"
)

// Environment variables read by ApplyEnv.
const (
	EnvVarEnvironment = "CONTXT_ENV"
	EnvVarLogLevel    = "CONTXT_LOG_LEVEL"
	EnvVarLogFormat   = "CONTXT_LOG_FORMAT"
	EnvVarPageSize    = "CONTXT_PAGE_SIZE"
)

// ApplyEnv overrides cfg from CONTXT_* environment variables. Unparseable
// numeric values are ignored.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvVarEnvironment); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv(EnvVarLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvVarLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvVarPageSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pagination.PageSize = n
		}
	}

	cfg.Cache.Enabled = cache.EnabledFromEnv(cfg.Cache.Enabled)
	cfg.Cache.TTLSeconds = cache.TTLFromEnv(cfg.Cache.TTLSeconds)
	cfg.Cache.Directory = cache.DirFromEnv(cfg.Cache.Directory)
	cfg.Cache.MaxSizeMB = cache.MaxSizeFromEnv(cfg.Cache.MaxSizeMB)
}

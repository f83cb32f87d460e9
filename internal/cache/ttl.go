package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// TTL configuration constants and defaults.
const (
	// DefaultTTLSeconds is the default cache TTL (1 hour).
	DefaultTTLSeconds = 3600

	// MinTTLSeconds is the minimum allowed TTL (1 minute).
	MinTTLSeconds = 60

	// MaxTTLSeconds is the maximum allowed TTL (7 days).
	MaxTTLSeconds = 604800

	// DefaultMaxSizeMB is the default maximum cache size in MB.
	DefaultMaxSizeMB = 100

	minutesPerHour = 60
	hoursPerDay    = 24

	// EnvTTLSeconds overrides the TTL.
	EnvTTLSeconds = "CONTXT_CACHE_TTL_SECONDS"

	// EnvEnabled enables or disables the cache.
	EnvEnabled = "CONTXT_CACHE_ENABLED"

	// EnvDir overrides the cache directory.
	EnvDir = "CONTXT_CACHE_DIR"

	// EnvMaxSize overrides the size limit in MB.
	EnvMaxSize = "CONTXT_CACHE_MAX_SIZE_MB"
)

// ErrInvalidTTL is returned for TTLs outside the allowed range.
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// ValidateTTL checks seconds is within the allowed range.
func ValidateTTL(seconds int) error {
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return nil
}

// TTLFromEnv reads the TTL from the environment, returning fallback when
// unset or invalid.
func TTLFromEnv(fallback int) int {
	envVal := os.Getenv(EnvTTLSeconds)
	if envVal == "" {
		return fallback
	}
	ttl, err := ParseTTL(envVal)
	if err != nil {
		return fallback
	}
	return ttl
}

// EnabledFromEnv reads the enabled flag from the environment, returning
// fallback when unset or invalid.
func EnabledFromEnv(fallback bool) bool {
	envVal := os.Getenv(EnvEnabled)
	if envVal == "" {
		return fallback
	}
	enabled, err := strconv.ParseBool(envVal)
	if err != nil {
		return fallback
	}
	return enabled
}

// DirFromEnv reads the cache directory from the environment, returning
// fallback when unset.
func DirFromEnv(fallback string) string {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir
	}
	return fallback
}

// MaxSizeFromEnv reads the size limit from the environment, returning
// fallback when unset, invalid or negative.
func MaxSizeFromEnv(fallback int) int {
	envVal := os.Getenv(EnvMaxSize)
	if envVal == "" {
		return fallback
	}
	maxSize, err := strconv.Atoi(envVal)
	if err != nil || maxSize < 0 {
		return fallback
	}
	return maxSize
}

// FormatDuration formats a duration in a human-readable way.
// Examples: "1h", "30m", "3d2h".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	if d < hoursPerDay*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % minutesPerHour
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if hours == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, hours)
}

// ParseTTL parses integer seconds ("3600") or a duration ("1h30m").
func ParseTTL(s string) (int, error) {
	seconds, err := strconv.Atoi(s)
	if err != nil {
		duration, durErr := time.ParseDuration(s)
		if durErr != nil {
			return 0, fmt.Errorf("invalid TTL format: %w", durErr)
		}
		seconds = int(duration.Seconds())
	}
	if err := ValidateTTL(seconds); err != nil {
		return 0, err
	}
	return seconds, nil
}

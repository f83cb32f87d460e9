package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyEnvironment = "environment"
	keyServices    = "services"
	keyOutput      = "output"
	keyLogging     = "logging"
	keyCache       = "cache"
	keyPagination  = "pagination"
	keyAuth        = "auth"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config fields.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyEnvironment: true,
	keyServices:    true,
	keyOutput:      true,
	keyLogging:     true,
	keyCache:       true,
	keyPagination:  true,
	keyAuth:        true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target, except services, which merges per service name so a file
// can add or replace one service without restating the others.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]any
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		// Re-marshal the single section so we can unmarshal it onto the
		// strongly-typed target field.
		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection unmarshals raw YAML bytes into the correct field of target
// based on the given key name. Each section is unmarshalled into a fresh
// zero-value to ensure complete replacement.
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keyEnvironment:
		var v string
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Environment = v
	case keyServices:
		var v map[string]map[string]ServiceConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		if target.Services == nil {
			target.Services = make(map[string]map[string]ServiceConfig, len(v))
		}
		for name, envs := range v {
			target.Services[name] = envs
		}
	case keyOutput:
		var v OutputConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Output = v
	case keyLogging:
		var v LoggingConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Logging = v
	case keyCache:
		var v CacheConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Cache = v
	case keyPagination:
		var v PaginationConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Pagination = v
	case keyAuth:
		var v AuthConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Auth = v
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

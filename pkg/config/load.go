package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/metrics"
	"github.com/goliatone/go-formguard/pkg/schedule"
)

// Default values for configuration fields.
const (
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultDebounce          = schedule.DefaultDebounce
	DefaultRevalidateTimeout = 10 * time.Second
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Validation.Debounce == 0 {
		cfg.Validation.Debounce = DefaultDebounce
	}
	placeholders := form.DefaultPlaceholders()
	if cfg.Validation.Validating == "" {
		cfg.Validation.Validating = placeholders.Validating
	}
	if cfg.Validation.Failed == "" {
		cfg.Validation.Failed = placeholders.Failed
	}
	if cfg.Validation.RevalidateTimeout == 0 {
		cfg.Validation.RevalidateTimeout = DefaultRevalidateTimeout
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = metrics.DefaultNamespace
	}
}

// Parse decodes YAML, applies defaults and environment overrides, and
// validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and parses the file at path. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		cfg := Default()
		applyEnvOverrides(cfg)
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: load %q: %w", path, err)
	}
	return cfg, nil
}

// applyEnvOverrides applies FORMGUARD_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("FORMGUARD_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("FORMGUARD_LOG_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("FORMGUARD_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Validation.Debounce = d
		}
	}
	if val := os.Getenv("FORMGUARD_METRICS_ADDRESS"); val != "" {
		cfg.Metrics.Address = val
	}
}

package config

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/goliatone/go-formguard/pkg/form"
)

// Config is the runtime configuration of the formguard tools.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Validation ValidationConfig `yaml:"validation"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Messages   MessagesConfig   `yaml:"messages"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// ValidationConfig tunes component behaviour.
type ValidationConfig struct {
	Debounce   time.Duration `yaml:"debounce"`
	Validating string        `yaml:"validating_message"`
	Failed     string        `yaml:"failed_message"`
	// RevalidateTimeout bounds remote revalidation requests.
	RevalidateTimeout time.Duration `yaml:"revalidate_timeout"`
}

// MetricsConfig controls the Prometheus exporter.
type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
	// Address is where watch serves /metrics. Empty disables the endpoint.
	Address string `yaml:"address"`
}

// MessagesConfig points at a catalog override file.
type MessagesConfig struct {
	File string `yaml:"file"`
}

// Logger builds the slog logger described by the logging section.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.Logging.Level)}
	if strings.EqualFold(c.Logging.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ScopeOptions returns the component options implied by the configuration.
func (c *Config) ScopeOptions(logger *slog.Logger) []form.ScopeOption {
	return []form.ScopeOption{
		form.WithLogger(logger),
		form.WithDebounce(c.Validation.Debounce),
		form.WithPlaceholders(form.Placeholders{
			Validating: c.Validation.Validating,
			Failed:     c.Validation.Failed,
		}),
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

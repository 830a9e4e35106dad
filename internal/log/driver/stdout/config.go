package stdout

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/songzhibin97/stargate-stats/internal/config"
	"github.com/songzhibin97/stargate-stats/pkg/log"
)

// FromConfig converts the logging section of the application configuration.
// Output is "stdout", "stderr" or a file path opened for appending; the
// returned closer releases it.
func FromConfig(cfg config.LoggingConfig) (*Config, io.Closer, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	c := DefaultConfig()
	c.Level = level
	c.EnableCaller = cfg.Caller
	c.EnableStacktrace = cfg.Stacktrace
	c.Development = cfg.Development
	if cfg.TimeFormat != "" {
		c.TimeFormat = cfg.TimeFormat
	}

	var closer io.Closer = nopCloser{}
	switch cfg.Output {
	case "", "stdout":
		c.Output = os.Stdout
	case "stderr":
		c.Output = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log output %s: %w", cfg.Output, err)
		}
		c.Output = f
		closer = f
	}

	if err := c.Validate(); err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return c, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Validate validates the configuration and fills in defaults for empty
// fields.
func (c *Config) Validate() error {
	if c.Level < log.DebugLevel || c.Level > log.FatalLevel {
		return fmt.Errorf("invalid log level: %d", c.Level)
	}

	if c.TimeFormat == "" {
		c.TimeFormat = time.RFC3339
	}
	if _, err := time.Parse(c.TimeFormat, time.Now().Format(c.TimeFormat)); err != nil {
		return fmt.Errorf("invalid time format: %s", c.TimeFormat)
	}

	if c.FieldNames.Time == "" {
		c.FieldNames.Time = log.FieldTimestamp
	}
	if c.FieldNames.Level == "" {
		c.FieldNames.Level = log.FieldLevel
	}
	if c.FieldNames.Message == "" {
		c.FieldNames.Message = log.FieldMessage
	}
	if c.FieldNames.Caller == "" {
		c.FieldNames.Caller = log.FieldCaller
	}

	if c.Output == nil {
		c.Output = os.Stdout
	}
	return nil
}

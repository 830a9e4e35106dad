package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxRecentLookupsCapacity bounds stats.recent_lookups.capacity
const MaxRecentLookupsCapacity = 1 << 20

// Default returns the configuration used when no file or environment
// override is given
func Default() *Config {
	return &Config{
		Admin: AdminConfig{
			Address:         ":9901",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Namespace:       "stargate",
		},
		Stats: StatsConfig{
			Source:        SourceMemory,
			FlushInterval: 5 * time.Second,
			RecentLookups: RecentLookupsConfig{
				Capacity: 100,
			},
			ProcessCollectors: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     "stdout",
			Stacktrace: true,
			TimeFormat: time.RFC3339,
		},
		Tracing: TracingConfig{
			Enabled: false,
			Jaeger: JaegerConfig{
				Endpoint:       "http://localhost:14268/api/traces",
				ServiceName:    "stargate-stats",
				ServiceVersion: "1.0.0",
				SampleRate:     0.1,
			},
		},
	}
}

// Load loads configuration from file with environment variable overrides
func Load(configFile string) (*Config, error) {
	cfg := Default()

	// Load from file if exists
	if configFile != "" {
		if err := loadFromFile(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	// Validate configuration
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(cfg *Config, filename string) error {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) error {
	// Admin configuration
	if addr := os.Getenv("STARGATE_STATS_ADMIN_ADDRESS"); addr != "" {
		cfg.Admin.Address = addr
	}
	if namespace, ok := os.LookupEnv("STARGATE_STATS_NAMESPACE"); ok {
		cfg.Admin.Namespace = namespace
	}

	// Stats configuration
	if source := os.Getenv("STARGATE_STATS_SOURCE"); source != "" {
		cfg.Stats.Source = source
	}
	if interval := os.Getenv("STARGATE_STATS_FLUSH_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid STARGATE_STATS_FLUSH_INTERVAL %q: %w", interval, err)
		}
		cfg.Stats.FlushInterval = d
	}
	if capacity := os.Getenv("STARGATE_STATS_RECENT_LOOKUPS_CAPACITY"); capacity != "" {
		n, err := strconv.ParseUint(capacity, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid STARGATE_STATS_RECENT_LOOKUPS_CAPACITY %q: %w", capacity, err)
		}
		cfg.Stats.RecentLookups.Capacity = n
	}

	// Logging configuration
	if logLevel := os.Getenv("STARGATE_STATS_LOG_LEVEL"); logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if output := os.Getenv("STARGATE_STATS_LOG_OUTPUT"); output != "" {
		cfg.Logging.Output = output
	}

	// Tracing configuration
	if enabled := os.Getenv("STARGATE_STATS_TRACING_ENABLED"); enabled != "" {
		b, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid STARGATE_STATS_TRACING_ENABLED %q: %w", enabled, err)
		}
		cfg.Tracing.Enabled = b
	}
	if endpoint := os.Getenv("STARGATE_STATS_JAEGER_ENDPOINT"); endpoint != "" {
		cfg.Tracing.Jaeger.Endpoint = endpoint
	}

	return nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.Admin.Address == "" {
		return fmt.Errorf("admin address cannot be empty")
	}

	switch cfg.Stats.Source {
	case SourceMemory, SourcePrometheus:
	default:
		return fmt.Errorf("invalid stats source: %s", cfg.Stats.Source)
	}

	if cfg.Stats.FlushInterval <= 0 {
		return fmt.Errorf("stats flush interval must be positive")
	}

	if cfg.Stats.RecentLookups.Capacity == 0 || cfg.Stats.RecentLookups.Capacity > MaxRecentLookupsCapacity {
		return fmt.Errorf("recent lookups capacity must be between 1 and %d", MaxRecentLookupsCapacity)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", cfg.Logging.Level)
	}

	if cfg.Tracing.Enabled {
		if cfg.Tracing.Jaeger.ServiceName == "" {
			return fmt.Errorf("tracing service name cannot be empty when tracing is enabled")
		}
		if cfg.Tracing.Jaeger.SampleRate < 0 || cfg.Tracing.Jaeger.SampleRate > 1 {
			return fmt.Errorf("tracing sample rate must be between 0 and 1")
		}
	}

	return nil
}

package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Admin   AdminConfig   `yaml:"admin"`
	Stats   StatsConfig   `yaml:"stats"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
}

// AdminConfig represents the admin HTTP server configuration
type AdminConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Namespace prefixes every family in the Prometheus output
	Namespace string `yaml:"namespace"`
}

// Stats sources
const (
	SourceMemory     = "memory"
	SourcePrometheus = "prometheus"
)

// StatsConfig represents the metric store configuration
type StatsConfig struct {
	// Source selects the store: "memory" or "prometheus"
	Source        string        `yaml:"source"`
	FlushInterval time.Duration `yaml:"flush_interval"`

	RecentLookups RecentLookupsConfig `yaml:"recent_lookups"`

	// ProcessCollectors registers the Go runtime and process collectors
	// with the prometheus source
	ProcessCollectors bool `yaml:"process_collectors"`
}

// RecentLookupsConfig represents recent lookups tracking configuration
type RecentLookupsConfig struct {
	// Capacity is applied by the enable endpoint
	Capacity uint64 `yaml:"capacity"`

	// EnabledOnStart turns tracking on before the server accepts requests
	EnabledOnStart bool `yaml:"enabled_on_start"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Output      string `yaml:"output"`
	Development bool   `yaml:"development"`
	Caller      bool   `yaml:"caller"`
	Stacktrace  bool   `yaml:"stacktrace"`
	TimeFormat  string `yaml:"time_format"`
}

// TracingConfig represents tracing configuration
type TracingConfig struct {
	Enabled bool         `yaml:"enabled"`
	Jaeger  JaegerConfig `yaml:"jaeger"`
}

// JaegerConfig represents Jaeger configuration
type JaegerConfig struct {
	Endpoint       string  `yaml:"endpoint"`
	ServiceName    string  `yaml:"service_name"`
	ServiceVersion string  `yaml:"service_version"`
	SampleRate     float64 `yaml:"sample_rate"`
}

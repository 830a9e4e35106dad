package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/songzhibin97/stargate-stats/internal/config"
	"github.com/songzhibin97/stargate-stats/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level log.Level) (*StdoutLogger, *observer.ObservedLogs) {
	core, logs := observer.New(convertLogLevel(level))
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.EnableStacktrace = false
	return NewWithCore(core, cfg), logs
}

func TestLogger_Levels(t *testing.T) {
	logger, logs := newObserved(log.InfoLevel)

	logger.Debug("hidden")
	logger.Info("shown", log.String("format", "json"))
	logger.Warn("careful")
	logger.Error("failed", log.Error(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "shown", entries[0].Message)
	assert.Equal(t, "json", entries[0].ContextMap()["format"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[2].ContextMap()["error"])
}

func TestLogger_With(t *testing.T) {
	logger, logs := newObserved(log.DebugLevel)

	child := logger.With(log.String(log.FieldComponent, "admin"))
	child.Info("first", log.Uint64("capacity", 100))
	logger.Info("second")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{"component": "admin", "capacity": uint64(100)}, entries[0].ContextMap())
	assert.Empty(t, entries[1].ContextMap())
}

func TestLogger_WithContext(t *testing.T) {
	logger, logs := newObserved(log.DebugLevel)

	provider := sdktrace.NewTracerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	ctx, span := provider.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	ctx = log.WithRequestID(ctx, "req-1")

	logger.WithContext(ctx).Info("traced")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields[log.FieldTraceID])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields[log.FieldSpanID])
	assert.Equal(t, "req-1", fields[log.FieldRequestID])

	// no span and no request ID adds nothing
	logger.WithContext(context.Background()).Info("plain")
	assert.Empty(t, logs.All()[1].ContextMap())
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Output = &buf
	cfg.TimeFormat = time.RFC3339

	logger, err := New(cfg)
	require.NoError(t, err)
	logger.Info("Stats rendered", log.Int("scalars", 3), log.Duration("duration", time.Second))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Stats rendered", entry["message"])
	assert.Equal(t, float64(3), entry["scalars"])
	assert.Equal(t, float64(1), entry["duration"])
	assert.Contains(t, entry, "timestamp")
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{Level: log.Level(42)}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Level: log.WarnLevel}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.RFC3339, cfg.TimeFormat)
	assert.Equal(t, "timestamp", cfg.FieldNames.Time)
	assert.NotNil(t, cfg.Output)
}

func TestFromConfig(t *testing.T) {
	cfg, closer, err := FromConfig(config.LoggingConfig{Level: "debug", Output: "stderr", Caller: true})
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, log.DebugLevel, cfg.Level)
	assert.True(t, cfg.EnableCaller)

	path := filepath.Join(t.TempDir(), "stats.log")
	cfg, closer, err = FromConfig(config.LoggingConfig{Level: "info", Output: path})
	require.NoError(t, err)
	logger, err := New(cfg)
	require.NoError(t, err)
	logger.Info("to file")
	require.NoError(t, closer.Close())

	_, _, err = FromConfig(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

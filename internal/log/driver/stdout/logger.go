package stdout

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/songzhibin97/stargate-stats/pkg/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StdoutLogger implements the log.Logger interface using zap for JSON output.
// Fields added through With are bound to the underlying zap logger.
type StdoutLogger struct {
	zapLogger *zap.Logger
	config    *Config
}

// Config represents the configuration options for StdoutLogger.
type Config struct {
	// Level sets the minimum logging level
	Level log.Level `json:"level"`

	// TimeFormat specifies the time format for timestamps
	// Default: RFC3339
	TimeFormat string `json:"time_format,omitempty"`

	// EnableCaller adds caller information to log entries
	EnableCaller bool `json:"enable_caller"`

	// EnableStacktrace adds stack trace for error and fatal levels
	EnableStacktrace bool `json:"enable_stacktrace"`

	// FieldNames allows customization of field names in JSON output
	FieldNames FieldNames `json:"field_names,omitempty"`

	// Development enables development mode with more human-readable output
	Development bool `json:"development"`

	// Output receives the encoded entries. Default: os.Stdout
	Output io.Writer `json:"-"`
}

// FieldNames allows customization of standard field names in JSON output.
type FieldNames struct {
	Time    string `json:"time,omitempty"`
	Level   string `json:"level,omitempty"`
	Message string `json:"message,omitempty"`
	Caller  string `json:"caller,omitempty"`
}

// DefaultConfig returns a default configuration for StdoutLogger.
func DefaultConfig() *Config {
	return &Config{
		Level:            log.InfoLevel,
		TimeFormat:       time.RFC3339,
		EnableCaller:     false,
		EnableStacktrace: true,
		Development:      false,
		FieldNames: FieldNames{
			Time:    log.FieldTimestamp,
			Level:   log.FieldLevel,
			Message: log.FieldMessage,
			Caller:  log.FieldCaller,
		},
		Output: os.Stdout,
	}
}

// New creates a new StdoutLogger with the given configuration.
func New(config *Config) (*StdoutLogger, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        config.FieldNames.Time,
		LevelKey:       config.FieldNames.Level,
		NameKey:        "logger",
		CallerKey:      config.FieldNames.Caller,
		MessageKey:     config.FieldNames.Message,
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     getTimeEncoder(config.TimeFormat),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(config.Output),
		convertLogLevel(config.Level),
	)
	return NewWithCore(core, config), nil
}

// NewWithCore creates a StdoutLogger writing to an existing zap core. Only the
// caller, stacktrace and development options of config are applied.
func NewWithCore(core zapcore.Core, config *Config) *StdoutLogger {
	if config == nil {
		config = DefaultConfig()
	}

	var options []zap.Option
	if config.EnableCaller {
		options = append(options, zap.AddCaller(), zap.AddCallerSkip(2))
	}
	if config.EnableStacktrace {
		options = append(options, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	if config.Development {
		options = append(options, zap.Development())
	}

	return &StdoutLogger{
		zapLogger: zap.New(core, options...),
		config:    config,
	}
}

// Debug logs a debug message with optional structured fields.
func (l *StdoutLogger) Debug(msg string, fields ...log.Field) {
	l.log(log.DebugLevel, msg, fields...)
}

// Info logs an informational message with optional structured fields.
func (l *StdoutLogger) Info(msg string, fields ...log.Field) {
	l.log(log.InfoLevel, msg, fields...)
}

// Warn logs a warning message with optional structured fields.
func (l *StdoutLogger) Warn(msg string, fields ...log.Field) {
	l.log(log.WarnLevel, msg, fields...)
}

// Error logs an error message with optional structured fields.
func (l *StdoutLogger) Error(msg string, fields ...log.Field) {
	l.log(log.ErrorLevel, msg, fields...)
}

// Fatal logs a fatal message with optional structured fields and exits the program.
func (l *StdoutLogger) Fatal(msg string, fields ...log.Field) {
	l.log(log.FatalLevel, msg, fields...)
	os.Exit(1)
}

// With creates a new logger instance with additional structured fields.
func (l *StdoutLogger) With(fields ...log.Field) log.Logger {
	if len(fields) == 0 {
		return l
	}
	return &StdoutLogger{
		zapLogger: l.zapLogger.With(convertToZapFields(fields)...),
		config:    l.config,
	}
}

// WithContext adds the trace and span IDs of the active span and the request
// ID stored in ctx.
func (l *StdoutLogger) WithContext(ctx context.Context) log.Logger {
	var contextFields []log.Field

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		contextFields = append(contextFields, log.TraceFields(spanCtx.TraceID().String(), spanCtx.SpanID().String())...)
	}

	if requestID, ok := log.RequestIDFromContext(ctx); ok {
		contextFields = append(contextFields, log.String(log.FieldRequestID, requestID))
	}

	return l.With(contextFields...)
}

// Sync flushes buffered entries
func (l *StdoutLogger) Sync() error {
	return l.zapLogger.Sync()
}

// log is the internal logging method that handles the actual logging.
func (l *StdoutLogger) log(level log.Level, msg string, fields ...log.Field) {
	if level < l.config.Level {
		return
	}

	zapFields := convertToZapFields(fields)
	switch level {
	case log.DebugLevel:
		l.zapLogger.Debug(msg, zapFields...)
	case log.InfoLevel:
		l.zapLogger.Info(msg, zapFields...)
	case log.WarnLevel:
		l.zapLogger.Warn(msg, zapFields...)
	case log.ErrorLevel:
		l.zapLogger.Error(msg, zapFields...)
	case log.FatalLevel:
		l.zapLogger.Fatal(msg, zapFields...)
	}
}

// convertLogLevel converts our log.Level to zap's zapcore.Level.
func convertLogLevel(level log.Level) zapcore.Level {
	switch level {
	case log.DebugLevel:
		return zapcore.DebugLevel
	case log.InfoLevel:
		return zapcore.InfoLevel
	case log.WarnLevel:
		return zapcore.WarnLevel
	case log.ErrorLevel:
		return zapcore.ErrorLevel
	case log.FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// convertToZapFields converts our log.Field slice to zap.Field slice.
func convertToZapFields(fields []log.Field) []zap.Field {
	zapFields := make([]zap.Field, len(fields))
	for i, field := range fields {
		zapFields[i] = convertToZapField(field)
	}
	return zapFields
}

// convertToZapField converts a single log.Field to zap.Field.
func convertToZapField(field log.Field) zap.Field {
	switch v := field.Value.(type) {
	case string:
		return zap.String(field.Key, v)
	case int:
		return zap.Int(field.Key, v)
	case int64:
		return zap.Int64(field.Key, v)
	case uint64:
		return zap.Uint64(field.Key, v)
	case float64:
		return zap.Float64(field.Key, v)
	case bool:
		return zap.Bool(field.Key, v)
	case time.Time:
		return zap.Time(field.Key, v)
	case time.Duration:
		return zap.Duration(field.Key, v)
	case error:
		return zap.NamedError(field.Key, v)
	default:
		return zap.Any(field.Key, v)
	}
}

// getTimeEncoder returns the appropriate time encoder based on the format.
func getTimeEncoder(format string) zapcore.TimeEncoder {
	switch format {
	case time.RFC3339:
		return zapcore.RFC3339TimeEncoder
	case time.RFC3339Nano:
		return zapcore.RFC3339NanoTimeEncoder
	default:
		return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format(format))
		}
	}
}

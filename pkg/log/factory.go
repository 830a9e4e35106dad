package log

import (
	"context"
	"sync"
)

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = nopLogger{}
)

// SetDefault replaces the process-wide default logger. A nil logger restores
// the no-op logger.
func SetDefault(logger Logger) {
	if logger == nil {
		logger = nopLogger{}
	}
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// Default returns the process-wide default logger. Until SetDefault is called
// it discards every entry.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Component returns the default logger tagged with a component field.
func Component(component string) Logger {
	return Default().With(String(FieldComponent, component))
}

// Service returns the default logger tagged with service fields.
func Service(service, version string) Logger {
	return Default().With(
		String(FieldService, service),
		String(FieldVersion, version),
	)
}

// FromContext extracts a logger from the context, or returns the default logger.
func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerContextKey).(Logger); ok {
		return logger
	}
	return Default()
}

// ToContext adds a logger to the context.
func ToContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// WithRequestID stores a request ID for loggers created with WithContext.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext returns the request ID stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDContextKey).(string)
	return requestID, ok && requestID != ""
}

type contextKey string

const (
	loggerContextKey    contextKey = "logger"
	requestIDContextKey contextKey = "request_id"
)

// NewNop returns a logger that discards every entry.
func NewNop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field)              {}
func (nopLogger) Info(string, ...Field)               {}
func (nopLogger) Warn(string, ...Field)               {}
func (nopLogger) Error(string, ...Field)              {}
func (nopLogger) Fatal(string, ...Field)              {}
func (l nopLogger) With(...Field) Logger               { return l }
func (l nopLogger) WithContext(context.Context) Logger { return l }

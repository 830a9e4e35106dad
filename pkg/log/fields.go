package log

import (
	"time"
)

// Standard field names for consistent logging across the application
const (
	// Core fields
	FieldTimestamp = "timestamp"
	FieldLevel     = "level"
	FieldMessage   = "message"
	FieldCaller    = "caller"
	FieldError     = "error"

	// Request/Response fields
	FieldRequestID    = "request_id"
	FieldTraceID      = "trace_id"
	FieldSpanID       = "span_id"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldQuery        = "query"
	FieldStatusCode   = "status_code"
	FieldResponseSize = "response_size"
	FieldClientIP     = "client_ip"

	// Service fields
	FieldService     = "service"
	FieldVersion     = "version"
	FieldComponent   = "component"
	FieldEnvironment = "environment"
	FieldPID         = "pid"

	// Performance fields
	FieldDuration = "duration"
	FieldInterval = "interval"

	// Stats fields
	FieldSource   = "source"
	FieldFormat   = "format"
	FieldCapacity = "capacity"
)

// RequestFields creates standard request logging fields
func RequestFields(method, path, query string) []Field {
	return []Field{
		String(FieldMethod, method),
		String(FieldPath, path),
		String(FieldQuery, query),
	}
}

// ResponseFields creates standard response logging fields
func ResponseFields(statusCode, responseSize int, duration time.Duration) []Field {
	return []Field{
		Int(FieldStatusCode, statusCode),
		Int(FieldResponseSize, responseSize),
		Duration(FieldDuration, duration),
	}
}

// ServiceFields creates standard service logging fields
func ServiceFields(service, version, component string) []Field {
	return []Field{
		String(FieldService, service),
		String(FieldVersion, version),
		String(FieldComponent, component),
	}
}

// TraceFields creates standard tracing logging fields
func TraceFields(traceID, spanID string) []Field {
	return []Field{
		String(FieldTraceID, traceID),
		String(FieldSpanID, spanID),
	}
}

// StartupFields creates standard application startup logging fields
func StartupFields(appName, version string, pid int, startTime time.Time) []Field {
	return []Field{
		String(FieldService, appName),
		String(FieldVersion, version),
		Int(FieldPID, pid),
		Time("start_time", startTime),
	}
}

// ShutdownFields creates standard application shutdown logging fields
func ShutdownFields(reason string, uptime time.Duration) []Field {
	return []Field{
		String("shutdown_reason", reason),
		Duration("uptime", uptime),
	}
}

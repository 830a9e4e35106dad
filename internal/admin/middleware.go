package admin

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/songzhibin97/stargate-stats/pkg/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// RequestObserver is called once per completed request. route is the
// registered path, or the raw path for unmatched requests.
type RequestObserver func(method, route string, status int, duration time.Duration)

// RequestLogger logs every completed request
func RequestLogger(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []log.Field{
			log.String(log.FieldMethod, c.Request.Method),
			log.String(log.FieldPath, c.Request.URL.Path),
			log.String(log.FieldQuery, c.Request.URL.RawQuery),
			log.Int(log.FieldStatusCode, c.Writer.Status()),
			log.Int(log.FieldResponseSize, c.Writer.Size()),
			log.Duration(log.FieldDuration, time.Since(start)),
			log.String(log.FieldClientIP, c.ClientIP()),
		}
		requestLogger := logger.WithContext(c.Request.Context())
		if c.Writer.Status() >= 500 {
			requestLogger.Warn("Admin request failed", fields...)
			return
		}
		requestLogger.Debug("Admin request completed", fields...)
	}
}

// Instrument reports every completed request to observe
func Instrument(observe RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		observe(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// Tracing starts a server span per request, continuing any trace propagated
// in the request headers
func Tracing(tracer trace.Tracer, propagator propagation.TextMapPropagator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.target", c.Request.URL.Path),
				attribute.String("http.user_agent", c.Request.UserAgent()),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
		}
	}
}

// Package admin renders metric snapshots and exposes the recent lookups
// control surface behind the admin HTTP endpoints.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/songzhibin97/stargate-stats/pkg/log"
	"github.com/songzhibin97/stargate-stats/pkg/stats"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Content types of admin responses
const (
	TextContentType = "text/plain; charset=utf-8"
	JSONContentType = "application/json"
)

// Output formats selected by the format parameter
const (
	FormatText       = "text"
	FormatJSON       = "json"
	FormatPrometheus = "prometheus"
)

const usageHint = "usage: /stats?format=json  or /stats?format=prometheus \n\n"

// Response is the outcome of one admin request
type Response struct {
	Status      int
	ContentType string
	Body        string
}

func textResponse(status int, body string) Response {
	return Response{Status: status, ContentType: TextContentType, Body: body}
}

// Options for creating a Handler
type Options struct {
	Store  stats.Store
	Logger log.Logger
	Tracer trace.Tracer

	// Namespace prefixes every Prometheus family name
	Namespace string

	// RecentLookupsCapacity is applied by EnableRecentLookups.
	// DefaultRecentLookupsCapacity is used when zero.
	RecentLookupsCapacity uint64
}

// Handler dispatches admin requests against one store
type Handler struct {
	store          stats.Store
	logger         log.Logger
	tracer         trace.Tracer
	namespace      string
	lookupCapacity uint64
}

// NewHandler creates a new admin handler
func NewHandler(opts Options) (*Handler, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("stats store is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Component("admin")
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("stargate-stats/admin")
	}
	capacity := opts.RecentLookupsCapacity
	if capacity == 0 {
		capacity = DefaultRecentLookupsCapacity
	}

	return &Handler{
		store:          opts.Store,
		logger:         logger,
		tracer:         tracer,
		namespace:      opts.Namespace,
		lookupCapacity: capacity,
	}, nil
}

// Stats handles /stats. A filter that does not compile is rejected with 400
// before the store is read. The format parameter selects the renderer; an
// unknown format, including an empty one, is answered with 404 and a usage
// hint.
func (h *Handler) Stats(ctx context.Context, query url.Values) Response {
	criteria, err := ParseFilterCriteria(query)
	if err != nil {
		return h.errorResponse(ctx, err)
	}

	format := FormatText
	if query.Has(ParamFormat) {
		format = query.Get(ParamFormat)
		if format != FormatJSON && format != FormatPrometheus {
			return textResponse(http.StatusNotFound, usageHint)
		}
	}
	return h.render(ctx, format, criteria, query.Has(ParamPretty))
}

// PrometheusStats handles /stats/prometheus
func (h *Handler) PrometheusStats(ctx context.Context, query url.Values) Response {
	criteria, err := ParseFilterCriteria(query)
	if err != nil {
		return h.errorResponse(ctx, err)
	}
	return h.render(ctx, FormatPrometheus, criteria, false)
}

// render runs one aggregation and render pass inside a span
func (h *Handler) render(ctx context.Context, format string, criteria FilterCriteria, pretty bool) Response {
	ctx, span := h.tracer.Start(ctx, "stats.render",
		trace.WithAttributes(
			attribute.String("stats.format", format),
			attribute.Bool("stats.used_only", criteria.UsedOnly),
			attribute.Bool("stats.filtered", criteria.Pattern != nil),
		),
	)
	defer span.End()

	snapshot, err := Aggregate(h.store, criteria)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return h.errorResponse(ctx, err)
	}
	span.SetAttributes(
		attribute.Int("stats.scalars", len(snapshot.Scalars)),
		attribute.Int("stats.text_readouts", len(snapshot.TextReadouts)),
		attribute.Int("stats.histograms", len(snapshot.Histograms)),
	)

	var resp Response
	switch format {
	case FormatJSON:
		body, err := RenderJSON(snapshot, pretty)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return h.errorResponse(ctx, err)
		}
		resp = Response{Status: http.StatusOK, ContentType: JSONContentType, Body: body}
	case FormatPrometheus:
		body, err := RenderPrometheus(snapshot, h.namespace, h.logger.WithContext(ctx))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return h.errorResponse(ctx, err)
		}
		resp = Response{Status: http.StatusOK, ContentType: PrometheusContentType, Body: body}
	default:
		resp = textResponse(http.StatusOK, RenderText(snapshot))
	}

	h.logger.Debug("Stats rendered",
		log.String("format", format),
		log.Bool("used_only", criteria.UsedOnly),
		log.Int("scalars", len(snapshot.Scalars)),
		log.Int("text_readouts", len(snapshot.TextReadouts)),
		log.Int("histograms", len(snapshot.Histograms)))
	return resp
}

// ResetCounters handles /reset_counters
func (h *Handler) ResetCounters(ctx context.Context) Response {
	if err := resetCounters(h.store); err != nil {
		return h.errorResponse(ctx, err)
	}
	h.logger.Info("Counters reset")
	return textResponse(http.StatusOK, acknowledgement)
}

// RecentLookups handles /stats/recentlookups
func (h *Handler) RecentLookups(ctx context.Context) Response {
	return textResponse(http.StatusOK, RenderRecentLookups(h.store.SymbolTable()))
}

// ClearRecentLookups handles /stats/recentlookups/clear
func (h *Handler) ClearRecentLookups(ctx context.Context) Response {
	if err := h.store.SymbolTable().ClearRecentLookups(); err != nil {
		return h.errorResponse(ctx, err)
	}
	return textResponse(http.StatusOK, acknowledgement)
}

// EnableRecentLookups handles /stats/recentlookups/enable
func (h *Handler) EnableRecentLookups(ctx context.Context) Response {
	if err := h.store.SymbolTable().SetRecentLookupCapacity(h.lookupCapacity); err != nil {
		return h.errorResponse(ctx, err)
	}
	h.logger.Info("Recent lookups tracking enabled", log.Uint64(log.FieldCapacity, h.lookupCapacity))
	return textResponse(http.StatusOK, acknowledgement)
}

// DisableRecentLookups handles /stats/recentlookups/disable. Tracked names
// are discarded; the total is kept.
func (h *Handler) DisableRecentLookups(ctx context.Context) Response {
	if err := h.store.SymbolTable().SetRecentLookupCapacity(0); err != nil {
		return h.errorResponse(ctx, err)
	}
	h.logger.Info("Recent lookups tracking disabled")
	return textResponse(http.StatusOK, acknowledgement)
}

// errorResponse maps err to a status. Filter errors are the caller's; every
// other error is internal and logged.
func (h *Handler) errorResponse(ctx context.Context, err error) Response {
	var filterErr *FilterError
	if errors.As(err, &filterErr) {
		return textResponse(http.StatusBadRequest, "Invalid regex: \""+filterErr.Err.Error()+"\"\n")
	}

	h.logger.WithContext(ctx).Error("Admin request failed",
		log.Bool("invariant_violation", stats.IsInternal(err)),
		log.Error(err))
	return textResponse(http.StatusInternalServerError, err.Error()+"\n")
}

// Package prometheus exposes the series of a Prometheus gatherer through the
// stats.Store interface.
package prometheus

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/songzhibin97/stargate-stats/internal/stats/symbol"
	"github.com/songzhibin97/stargate-stats/pkg/stats"
	"go.uber.org/multierr"
)

// Store mirrors the series of a prometheus.Gatherer. Values are refreshed on
// every Flush; series that disappear from the gatherer keep their last value.
type Store struct {
	gatherer prometheus.Gatherer
	symbols  *symbol.Table

	mu         sync.RWMutex
	closed     bool
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram

	// first-seen order, used for iteration
	counterList   []stats.Counter
	gaugeList     []stats.Gauge
	histogramList []stats.ParentHistogram
}

// Options for creating a Store
type Options struct {
	// Gatherer is the source of series. A fresh registry is used when nil.
	Gatherer prometheus.Gatherer

	// SymbolTable records series resolutions. A new table is used when nil.
	SymbolTable *symbol.Table
}

// New creates a store. It holds no series until the first Flush.
func New(opts Options) *Store {
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.NewRegistry()
	}
	symbols := opts.SymbolTable
	if symbols == nil {
		symbols = symbol.NewTable()
	}
	return &Store{
		gatherer:   gatherer,
		symbols:    symbols,
		counters:   make(map[string]*Counter),
		gauges:     make(map[string]*Gauge),
		histograms: make(map[string]*Histogram),
	}
}

// Flush gathers every family and refreshes the matching series. Families the
// gatherer reports alongside an error are still applied.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return stats.ErrStoreClosed
	}

	families, gatherErr := s.gatherer.Gather()
	var err error
	if gatherErr != nil {
		err = fmt.Errorf("failed to gather metrics: %w", gatherErr)
	}

	for _, family := range families {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return multierr.Append(err, ctxErr)
		}
		err = multierr.Append(err, s.convertMetricFamily(family))
	}
	return err
}

// convertMetricFamily applies every series of a gathered family
func (s *Store) convertMetricFamily(family *dto.MetricFamily) error {
	var err error
	for _, promMetric := range family.GetMetric() {
		id := series{
			name:   seriesName(family.GetName(), promMetric.GetLabel()),
			family: family.GetName(),
			tags:   convertLabelPairs(promMetric.GetLabel()),
		}
		s.symbols.Lookup(id.name)

		switch family.GetType() {
		case dto.MetricType_COUNTER:
			s.counter(id).update(convertValue(promMetric.GetCounter().GetValue()))
		case dto.MetricType_GAUGE:
			s.gauge(id).update(convertValue(promMetric.GetGauge().GetValue()))
		case dto.MetricType_UNTYPED:
			s.gauge(id).update(convertValue(promMetric.GetUntyped().GetValue()))
		case dto.MetricType_HISTOGRAM, dto.MetricType_GAUGE_HISTOGRAM:
			histogram := promMetric.GetHistogram()
			bounds, counts := convertHistogramBuckets(histogram.GetBucket())
			if uerr := s.histogram(id).updateBuckets(bounds, counts, histogram.GetSampleCount(), histogram.GetSampleSum()); uerr != nil {
				err = multierr.Append(err, stats.NewStatsError("flush", id.name, uerr))
			}
		case dto.MetricType_SUMMARY:
			summary := promMetric.GetSummary()
			computed := convertSummaryQuantiles(summary.GetQuantile())
			if uerr := s.histogram(id).updateSummary(computed, summary.GetSampleCount(), summary.GetSampleSum()); uerr != nil {
				err = multierr.Append(err, stats.NewStatsError("flush", id.name, uerr))
			}
		}
	}
	return err
}

func (s *Store) counter(id series) *Counter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, exists := s.counters[id.name]; exists {
		return c
	}
	c := &Counter{series: id}
	s.counters[id.name] = c
	s.counterList = append(s.counterList, c)
	return c
}

func (s *Store) gauge(id series) *Gauge {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, exists := s.gauges[id.name]; exists {
		return g
	}
	g := &Gauge{series: id}
	s.gauges[id.name] = g
	s.gaugeList = append(s.gaugeList, g)
	return g
}

func (s *Store) histogram(id series) *Histogram {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, exists := s.histograms[id.name]; exists {
		return h
	}
	h := newHistogram(id)
	s.histograms[id.name] = h
	s.histogramList = append(s.histogramList, h)
	return h
}

// Counters implements stats.Store
func (s *Store) Counters() []stats.Counter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]stats.Counter(nil), s.counterList...)
}

// Gauges implements stats.Store
func (s *Store) Gauges() []stats.Gauge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]stats.Gauge(nil), s.gaugeList...)
}

// TextReadouts implements stats.Store. The Prometheus data model has no
// string valued series.
func (s *Store) TextReadouts() []stats.TextReadout {
	return nil
}

// Histograms implements stats.Store
func (s *Store) Histograms() []stats.ParentHistogram {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]stats.ParentHistogram(nil), s.histogramList...)
}

// SymbolTable implements stats.Store
func (s *Store) SymbolTable() stats.SymbolTable {
	return s.symbols
}

// Close stops further flushes. Series already gathered stay readable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

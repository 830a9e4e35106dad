package stats

import (
	"fmt"
	"math"
	"strings"
)

// ImportMode describes how a gauge value is carried across a restart
type ImportMode int

const (
	// ImportModeUninitialized marks a gauge whose mode was never resolved.
	// Such gauges must not be reported.
	ImportModeUninitialized ImportMode = iota
	// ImportModeNeverImport gauges start from zero after a restart
	ImportModeNeverImport
	// ImportModeAccumulate gauges add the value of the previous process
	ImportModeAccumulate
)

// String returns the string representation of ImportMode
func (m ImportMode) String() string {
	switch m {
	case ImportModeUninitialized:
		return "uninitialized"
	case ImportModeNeverImport:
		return "never_import"
	case ImportModeAccumulate:
		return "accumulate"
	default:
		return "unknown"
	}
}

// Tag is a name/value pair extracted from a metric name
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SupportedQuantiles is the quantile schema shared by every histogram.
var SupportedQuantiles = []float64{0, 0.25, 0.5, 0.75, 0.90, 0.95, 0.99, 0.995, 0.999, 1}

// DefaultSupportedBuckets are the bucket upper bounds used when a histogram
// does not bring its own.
var DefaultSupportedBuckets = []float64{
	0.5, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000,
	30000, 60000, 300000, 600000, 1800000, 3600000,
}

// HistogramStatistics holds computed statistics for one view of a histogram.
// Quantiles are always reported against SupportedQuantiles.
type HistogramStatistics struct {
	computedQuantiles []float64
	supportedBuckets  []float64
	computedBuckets   []uint64
	sampleCount       uint64
	sampleSum         float64
}

// EmptyStatistics returns statistics for a histogram with no samples. Every
// computed quantile is NaN.
func EmptyStatistics() HistogramStatistics {
	quantiles := make([]float64, len(SupportedQuantiles))
	for i := range quantiles {
		quantiles[i] = math.NaN()
	}
	return HistogramStatistics{computedQuantiles: quantiles}
}

// NewHistogramStatistics builds statistics from computed values. It returns an
// error wrapping ErrQuantileSchemaMismatch when computedQuantiles does not
// have one value per supported quantile, and ErrInvalidBuckets when bucket
// bounds and counts differ in length.
func NewHistogramStatistics(computedQuantiles, supportedBuckets []float64, computedBuckets []uint64, sampleCount uint64, sampleSum float64) (HistogramStatistics, error) {
	if len(computedQuantiles) != len(SupportedQuantiles) {
		return HistogramStatistics{}, fmt.Errorf("%w: got %d computed quantiles, want %d",
			ErrQuantileSchemaMismatch, len(computedQuantiles), len(SupportedQuantiles))
	}
	if len(supportedBuckets) != len(computedBuckets) {
		return HistogramStatistics{}, fmt.Errorf("%w: %d bounds but %d counts",
			ErrInvalidBuckets, len(supportedBuckets), len(computedBuckets))
	}
	return HistogramStatistics{
		computedQuantiles: computedQuantiles,
		supportedBuckets:  supportedBuckets,
		computedBuckets:   computedBuckets,
		sampleCount:       sampleCount,
		sampleSum:         sampleSum,
	}, nil
}

// SupportedQuantiles returns the shared quantile schema
func (s HistogramStatistics) SupportedQuantiles() []float64 {
	return SupportedQuantiles
}

// ComputedQuantiles returns one value per supported quantile; NaN when unknown
func (s HistogramStatistics) ComputedQuantiles() []float64 {
	return s.computedQuantiles
}

// SupportedBuckets returns the bucket upper bounds
func (s HistogramStatistics) SupportedBuckets() []float64 {
	return s.supportedBuckets
}

// ComputedBuckets returns the cumulative count of samples at or below each bound
func (s HistogramStatistics) ComputedBuckets() []uint64 {
	return s.computedBuckets
}

// SampleCount returns the number of recorded samples
func (s HistogramStatistics) SampleCount() uint64 {
	return s.sampleCount
}

// SampleSum returns the sum of recorded samples
func (s HistogramStatistics) SampleSum() float64 {
	return s.sampleSum
}

// QuantileSummary renders the statistics as "P0: 1, P25: 1.025, ...".
func (s HistogramStatistics) QuantileSummary() string {
	parts := make([]string, 0, len(SupportedQuantiles))
	for i, q := range SupportedQuantiles {
		value := math.NaN()
		if i < len(s.computedQuantiles) {
			value = s.computedQuantiles[i]
		}
		parts = append(parts, fmt.Sprintf("P%s: %s", FormatCompact(100*q), FormatCompact(value)))
	}
	return strings.Join(parts, ", ")
}

// BucketSummary renders the cumulative bucket counts as "B0.5: 0, B1: 2, ...".
func (s HistogramStatistics) BucketSummary() string {
	parts := make([]string, 0, len(s.supportedBuckets))
	for i, bound := range s.supportedBuckets {
		parts = append(parts, fmt.Sprintf("B%s: %d", FormatCompact(bound), s.computedBuckets[i]))
	}
	return strings.Join(parts, ", ")
}

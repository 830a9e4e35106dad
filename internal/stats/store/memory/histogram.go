package memory

import (
	"math"
	"sync"

	"github.com/beorn7/perks/quantile"
	"github.com/songzhibin97/stargate-stats/pkg/stats"
)

// quantileTargets maps every interior cut-point to its allowed rank error.
// P0 and P100 are tracked exactly as min and max.
var quantileTargets = func() map[float64]float64 {
	targets := make(map[float64]float64, len(stats.SupportedQuantiles))
	for _, q := range stats.SupportedQuantiles {
		if q <= 0 || q >= 1 {
			continue
		}
		targets[q] = math.Min(0.01, (1-q)/10)
	}
	return targets
}()

// distribution accumulates samples for one view of a histogram
type distribution struct {
	stream  *quantile.Stream
	bounds  []float64
	buckets []uint64
	count   uint64
	sum     float64
	min     float64
	max     float64
}

func newDistribution(bounds []float64) *distribution {
	return &distribution{
		stream:  quantile.NewTargeted(quantileTargets),
		bounds:  bounds,
		buckets: make([]uint64, len(bounds)),
		min:     math.Inf(1),
		max:     math.Inf(-1),
	}
}

func (d *distribution) record(v float64) {
	d.stream.Insert(v)
	d.count++
	d.sum += v
	d.min = math.Min(d.min, v)
	d.max = math.Max(d.max, v)
	for i, bound := range d.bounds {
		if v <= bound {
			d.buckets[i]++
		}
	}
}

func (d *distribution) statistics() stats.HistogramStatistics {
	computed := make([]float64, len(stats.SupportedQuantiles))
	for i, q := range stats.SupportedQuantiles {
		switch {
		case d.count == 0:
			computed[i] = math.NaN()
		case q <= 0:
			computed[i] = d.min
		case q >= 1:
			computed[i] = d.max
		default:
			computed[i] = d.stream.Query(q)
		}
	}
	buckets := make([]uint64, len(d.buckets))
	copy(buckets, d.buckets)

	// Lengths are correct by construction.
	s, _ := stats.NewHistogramStatistics(computed, d.bounds, buckets, d.count, d.sum)
	return s
}

// Histogram is an in-memory stats.ParentHistogram. Recorded values become
// visible in the statistics at the next flush.
type Histogram struct {
	metricBase

	mu         sync.Mutex
	pending    *distribution
	cumulative *distribution
	interval   stats.HistogramStatistics
	total      stats.HistogramStatistics
}

func (h *Histogram) initStatistics(bounds []float64) {
	h.pending = newDistribution(bounds)
	h.cumulative = newDistribution(bounds)
	h.interval = h.pending.statistics()
	h.total = h.cumulative.statistics()
}

// RecordValue records one sample
func (h *Histogram) RecordValue(value uint64) {
	v := float64(value)
	h.mu.Lock()
	h.pending.record(v)
	h.cumulative.record(v)
	h.mu.Unlock()
	h.used.Store(true)
}

// flush latches the samples recorded since the previous flush as the interval
// view and refreshes the cumulative view.
func (h *Histogram) flush() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.interval = h.pending.statistics()
	h.total = h.cumulative.statistics()
	h.pending = newDistribution(h.pending.bounds)
}

// IntervalStatistics returns the statistics latched at the last flush
func (h *Histogram) IntervalStatistics() stats.HistogramStatistics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interval
}

// CumulativeStatistics returns the statistics of every sample up to the last flush
func (h *Histogram) CumulativeStatistics() stats.HistogramStatistics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total
}

// QuantileSummary implements stats.ParentHistogram
func (h *Histogram) QuantileSummary() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return stats.FormatQuantileSummary(h.Used(), h.interval, h.total)
}

// BucketSummary implements stats.ParentHistogram
func (h *Histogram) BucketSummary() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return stats.FormatBucketSummary(h.Used(), h.interval, h.total)
}

package prometheus

import (
	"sync"

	"github.com/songzhibin97/stargate-stats/pkg/stats"
)

// series carries the identity of one gathered series
type series struct {
	name   string
	family string
	tags   []stats.Tag
}

func (s *series) Name() string             { return s.name }
func (s *series) TagExtractedName() string { return s.family }
func (s *series) Tags() []stats.Tag        { return s.tags }

// Counter exposes a Prometheus counter series. Reset moves a baseline rather
// than touching the registry.
type Counter struct {
	series
	mu       sync.Mutex
	raw      uint64
	baseline uint64
	used     bool
}

func (c *Counter) update(raw uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if raw < c.baseline {
		// the collector restarted from zero
		c.baseline = 0
	}
	c.raw = raw
	if raw > 0 {
		c.used = true
	}
}

// Value returns the gathered value minus the reset baseline
func (c *Counter) Value() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raw - c.baseline
}

// Reset implements stats.Counter
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseline = c.raw
}

// Used implements stats.Metric
func (c *Counter) Used() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// Gauge exposes a Prometheus gauge or untyped series
type Gauge struct {
	series
	mu    sync.Mutex
	value uint64
	used  bool
}

func (g *Gauge) update(value uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value = value
	if value > 0 {
		g.used = true
	}
}

// Value implements stats.Gauge
func (g *Gauge) Value() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}

// ImportMode implements stats.Gauge. Gathered gauges always accumulate.
func (g *Gauge) ImportMode() stats.ImportMode {
	return stats.ImportModeAccumulate
}

// Used implements stats.Metric
func (g *Gauge) Used() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.used
}

// Histogram exposes a Prometheus histogram or summary series
type Histogram struct {
	series
	mu         sync.Mutex
	previous   []uint64
	interval   stats.HistogramStatistics
	cumulative stats.HistogramStatistics
	used       bool
}

func newHistogram(s series) *Histogram {
	return &Histogram{
		series:     s,
		interval:   stats.EmptyStatistics(),
		cumulative: stats.EmptyStatistics(),
	}
}

// updateBuckets refreshes both views from cumulative bucket counts. The
// interval view covers the counts added since the previous update.
func (h *Histogram) updateBuckets(bounds []float64, counts []uint64, count uint64, sum float64) error {
	cumulative, err := stats.NewHistogramStatistics(bucketQuantiles(bounds, counts, count), bounds, counts, count, sum)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	deltaCounts := bucketDelta(counts, h.previous)
	deltaCount, deltaSum := count, sum
	if prev := h.cumulative.SampleCount(); len(h.previous) == len(counts) && count >= prev {
		deltaCount = count - prev
		deltaSum = sum - h.cumulative.SampleSum()
	}
	interval, err := stats.NewHistogramStatistics(bucketQuantiles(bounds, deltaCounts, deltaCount), bounds, deltaCounts, deltaCount, deltaSum)
	if err != nil {
		return err
	}

	h.previous = counts
	h.interval = interval
	h.cumulative = cumulative
	if count > 0 {
		h.used = true
	}
	return nil
}

// updateSummary refreshes the cumulative view from summary objectives. A
// summary has no interval view.
func (h *Histogram) updateSummary(computed []float64, count uint64, sum float64) error {
	cumulative, err := stats.NewHistogramStatistics(computed, nil, nil, count, sum)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.cumulative = cumulative
	if count > 0 {
		h.used = true
	}
	return nil
}

// IntervalStatistics implements stats.ParentHistogram
func (h *Histogram) IntervalStatistics() stats.HistogramStatistics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interval
}

// CumulativeStatistics implements stats.ParentHistogram
func (h *Histogram) CumulativeStatistics() stats.HistogramStatistics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cumulative
}

// Used implements stats.Metric
func (h *Histogram) Used() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.used
}

// QuantileSummary implements stats.ParentHistogram
func (h *Histogram) QuantileSummary() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return stats.FormatQuantileSummary(h.used, h.interval, h.cumulative)
}

// BucketSummary implements stats.ParentHistogram
func (h *Histogram) BucketSummary() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return stats.FormatBucketSummary(h.used, h.interval, h.cumulative)
}

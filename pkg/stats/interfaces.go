package stats

import "context"

// Metric is the part shared by every metric kind. Filtering operates on this
// interface only, so it behaves identically for all kinds.
type Metric interface {
	// Name returns the full, unique name of the metric
	Name() string

	// TagExtractedName returns the name with tag values removed
	TagExtractedName() string

	// Tags returns the tags extracted from the name, sorted by tag name
	Tags() []Tag

	// Used reports whether the metric has ever been updated
	Used() bool
}

// Counter represents a monotonically non-decreasing metric
type Counter interface {
	Metric

	// Value returns the current value of the counter
	Value() uint64

	// Reset sets the counter back to zero
	Reset()
}

// Gauge represents a metric that can go up and down
type Gauge interface {
	Metric

	// Value returns the current value of the gauge
	Value() uint64

	// ImportMode returns how the gauge is treated across process restarts
	ImportMode() ImportMode
}

// TextReadout represents a string valued metric
type TextReadout interface {
	Metric

	// Value returns the current string value
	Value() string
}

// ParentHistogram represents a histogram with an interval (since the last
// flush) and a cumulative (since creation) view of its distribution.
type ParentHistogram interface {
	Metric

	// IntervalStatistics returns statistics for values recorded since the
	// previous flush
	IntervalStatistics() HistogramStatistics

	// CumulativeStatistics returns statistics for all recorded values
	CumulativeStatistics() HistogramStatistics

	// QuantileSummary returns a human readable summary of both views
	QuantileSummary() string

	// BucketSummary returns a human readable summary of the bucket counts
	BucketSummary() string
}

// SymbolTable owns the recent lookups tracker.
type SymbolTable interface {
	// RecentLookups calls fn for every tracked name, most looked up first
	// (ties ordered by name), and returns the total number of lookups
	// recorded since tracking was last cleared.
	RecentLookups(fn func(name string, count uint64)) uint64

	// ClearRecentLookups removes all tracked names without changing capacity
	ClearRecentLookups() error

	// SetRecentLookupCapacity bounds the number of tracked names. Zero
	// disables tracking.
	SetRecentLookupCapacity(capacity uint64) error

	// RecentLookupCapacity returns the current capacity
	RecentLookupCapacity() uint64
}

// Store is the read side of a metric store. Each method returns a slice that
// stays valid while the store keeps mutating values.
type Store interface {
	Counters() []Counter
	Gauges() []Gauge
	TextReadouts() []TextReadout

	// Histograms may contain several instances with the same name
	Histograms() []ParentHistogram

	SymbolTable() SymbolTable
}

// Flusher is implemented by stores that latch interval histogram data
// periodically.
type Flusher interface {
	Flush(ctx context.Context) error
}

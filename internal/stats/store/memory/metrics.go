package memory

import (
	"sync"
	"sync/atomic"

	"github.com/songzhibin97/stargate-stats/pkg/stats"
)

// Option configures a metric at creation time
type Option func(*metricOptions)

type metricOptions struct {
	tagExtractedName string
	tags             []stats.Tag
}

// WithTags sets the tag-extracted name and the tags of a metric. Without it
// the tag-extracted name equals the full name and there are no tags.
func WithTags(tagExtractedName string, tags ...stats.Tag) Option {
	return func(o *metricOptions) {
		o.tagExtractedName = tagExtractedName
		o.tags = append([]stats.Tag(nil), tags...)
	}
}

// metricBase carries the identity and used flag shared by every kind
type metricBase struct {
	name             string
	tagExtractedName string
	tags             []stats.Tag
	used             atomic.Bool
}

func (m *metricBase) init(name string, opts []Option) {
	o := metricOptions{tagExtractedName: name}
	for _, opt := range opts {
		opt(&o)
	}
	stats.SortTags(o.tags)
	m.name = name
	m.tagExtractedName = o.tagExtractedName
	m.tags = o.tags
}

func (m *metricBase) Name() string             { return m.name }
func (m *metricBase) TagExtractedName() string { return m.tagExtractedName }
func (m *metricBase) Tags() []stats.Tag        { return m.tags }
func (m *metricBase) Used() bool               { return m.used.Load() }

// Counter is an in-memory stats.Counter
type Counter struct {
	metricBase
	value atomic.Uint64
}

// Add adds delta to the counter
func (c *Counter) Add(delta uint64) {
	c.value.Add(delta)
	c.used.Store(true)
}

// Inc increments the counter by 1
func (c *Counter) Inc() {
	c.Add(1)
}

// Value returns the current value
func (c *Counter) Value() uint64 {
	return c.value.Load()
}

// Reset sets the value back to zero. The used flag is kept.
func (c *Counter) Reset() {
	c.value.Store(0)
}

// Gauge is an in-memory stats.Gauge
type Gauge struct {
	metricBase
	value      atomic.Uint64
	importMode atomic.Int32
}

// Set sets the gauge to value
func (g *Gauge) Set(value uint64) {
	g.value.Store(value)
	g.used.Store(true)
}

// Add adds delta to the gauge
func (g *Gauge) Add(delta uint64) {
	g.value.Add(delta)
	g.used.Store(true)
}

// Sub subtracts delta from the gauge
func (g *Gauge) Sub(delta uint64) {
	g.value.Add(^(delta - 1))
	g.used.Store(true)
}

// Inc increments the gauge by 1
func (g *Gauge) Inc() {
	g.Add(1)
}

// Dec decrements the gauge by 1
func (g *Gauge) Dec() {
	g.Sub(1)
}

// Value returns the current value
func (g *Gauge) Value() uint64 {
	return g.value.Load()
}

// ImportMode returns the import mode
func (g *Gauge) ImportMode() stats.ImportMode {
	return stats.ImportMode(g.importMode.Load())
}

// SetImportMode resolves the import mode of the gauge
func (g *Gauge) SetImportMode(mode stats.ImportMode) {
	g.importMode.Store(int32(mode))
}

// TextReadout is an in-memory stats.TextReadout
type TextReadout struct {
	metricBase
	mu    sync.RWMutex
	value string
}

// Set replaces the value
func (t *TextReadout) Set(value string) {
	t.mu.Lock()
	t.value = value
	t.mu.Unlock()
	t.used.Store(true)
}

// Value returns the current value
func (t *TextReadout) Value() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value
}

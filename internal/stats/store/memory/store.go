// Package memory provides an in-memory metric store.
package memory

import (
	"context"
	"sync"

	"github.com/songzhibin97/stargate-stats/internal/stats/symbol"
	"github.com/songzhibin97/stargate-stats/pkg/stats"
)

// Store implements stats.Store with in-memory metrics. Every call that
// resolves a metric by name is recorded in the symbol table.
type Store struct {
	mu      sync.RWMutex
	symbols *symbol.Table
	closed  bool

	counters     map[string]*Counter
	gauges       map[string]*Gauge
	textReadouts map[string]*TextReadout
	histograms   map[string]*Histogram

	// creation order, used for iteration
	counterList     []stats.Counter
	gaugeList       []stats.Gauge
	textReadoutList []stats.TextReadout
	histogramList   []stats.ParentHistogram

	buckets []float64
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithSymbolTable shares an existing symbol table with the store
func WithSymbolTable(table *symbol.Table) StoreOption {
	return func(s *Store) {
		s.symbols = table
	}
}

// WithBuckets overrides the histogram bucket bounds
func WithBuckets(bounds []float64) StoreOption {
	return func(s *Store) {
		s.buckets = append([]float64(nil), bounds...)
	}
}

// New creates an empty store
func New(opts ...StoreOption) *Store {
	s := &Store{
		counters:     make(map[string]*Counter),
		gauges:       make(map[string]*Gauge),
		textReadouts: make(map[string]*TextReadout),
		histograms:   make(map[string]*Histogram),
		buckets:      stats.DefaultSupportedBuckets,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.symbols == nil {
		s.symbols = symbol.NewTable()
	}
	return s
}

// Counter returns the counter called name, creating it if needed
func (s *Store) Counter(name string, opts ...Option) (*Counter, error) {
	if err := stats.ValidateName(name); err != nil {
		return nil, err
	}
	s.symbols.Lookup(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, stats.ErrStoreClosed
	}
	if c, exists := s.counters[name]; exists {
		return c, nil
	}
	c := &Counter{}
	c.init(name, opts)
	s.counters[name] = c
	s.counterList = append(s.counterList, c)
	return c, nil
}

// Gauge returns the gauge called name, creating it if needed. An existing
// gauge still in ImportModeUninitialized adopts mode.
func (s *Store) Gauge(name string, mode stats.ImportMode, opts ...Option) (*Gauge, error) {
	if err := stats.ValidateName(name); err != nil {
		return nil, err
	}
	s.symbols.Lookup(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, stats.ErrStoreClosed
	}
	if g, exists := s.gauges[name]; exists {
		if g.ImportMode() == stats.ImportModeUninitialized {
			g.SetImportMode(mode)
		}
		return g, nil
	}
	g := &Gauge{}
	g.init(name, opts)
	g.SetImportMode(mode)
	s.gauges[name] = g
	s.gaugeList = append(s.gaugeList, g)
	return g, nil
}

// TextReadout returns the text readout called name, creating it if needed
func (s *Store) TextReadout(name string, opts ...Option) (*TextReadout, error) {
	if err := stats.ValidateName(name); err != nil {
		return nil, err
	}
	s.symbols.Lookup(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, stats.ErrStoreClosed
	}
	if t, exists := s.textReadouts[name]; exists {
		return t, nil
	}
	t := &TextReadout{}
	t.init(name, opts)
	s.textReadouts[name] = t
	s.textReadoutList = append(s.textReadoutList, t)
	return t, nil
}

// Histogram returns the histogram called name, creating it if needed
func (s *Store) Histogram(name string, opts ...Option) (*Histogram, error) {
	if err := stats.ValidateName(name); err != nil {
		return nil, err
	}
	s.symbols.Lookup(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, stats.ErrStoreClosed
	}
	if h, exists := s.histograms[name]; exists {
		return h, nil
	}
	h := &Histogram{}
	h.init(name, opts)
	h.initStatistics(s.buckets)
	s.histograms[name] = h
	s.histogramList = append(s.histogramList, h)
	return h, nil
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

// TextReadouts implements stats.Store
func (s *Store) TextReadouts() []stats.TextReadout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]stats.TextReadout(nil), s.textReadoutList...)
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

// Flush latches interval statistics for every histogram
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	histograms := make([]*Histogram, 0, len(s.histograms))
	for _, h := range s.histogramList {
		histograms = append(histograms, h.(*Histogram))
	}
	s.mu.RUnlock()

	for _, h := range histograms {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.flush()
	}
	return nil
}

// Close rejects further metric creation. Existing metrics stay readable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

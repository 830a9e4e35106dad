// Package symbol records how often metric names are resolved.
package symbol

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/songzhibin97/stargate-stats/pkg/stats"
)

// MaxRecentLookupsCapacity bounds the capacity accepted by
// SetRecentLookupCapacity.
const MaxRecentLookupsCapacity = 1 << 20

// Table implements stats.SymbolTable. Tracked names live in an LRU bounded by
// the configured capacity: a lookup of an untracked name into a full table
// evicts the least recently looked-up name.
type Table struct {
	mu       sync.Mutex
	recent   *simplelru.LRU[string, uint64]
	capacity uint64
	total    uint64
}

// NewTable creates a table with tracking disabled
func NewTable() *Table {
	return &Table{}
}

// Lookup records one resolution of name
func (t *Table) Lookup(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total++
	if t.recent == nil {
		return
	}
	count, _ := t.recent.Get(name)
	t.recent.Add(name, count+1)
}

// RecentLookups calls fn for every tracked name ordered by descending count,
// then by name, and returns the total number of lookups.
func (t *Table) RecentLookups(fn func(name string, count uint64)) uint64 {
	type lookupCount struct {
		name  string
		count uint64
	}

	t.mu.Lock()
	total := t.total
	var lookups []lookupCount
	if t.recent != nil {
		lookups = make([]lookupCount, 0, t.recent.Len())
		for _, name := range t.recent.Keys() {
			count, _ := t.recent.Peek(name)
			lookups = append(lookups, lookupCount{name: name, count: count})
		}
	}
	t.mu.Unlock()

	sort.Slice(lookups, func(i, j int) bool {
		if lookups[i].count == lookups[j].count {
			return lookups[i].name < lookups[j].name
		}
		return lookups[i].count > lookups[j].count
	})
	for _, l := range lookups {
		fn(l.name, l.count)
	}
	return total
}

// ClearRecentLookups drops every tracked name and resets the total. The
// capacity is left unchanged.
func (t *Table) ClearRecentLookups() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.recent != nil {
		t.recent.Purge()
	}
	t.total = 0
	return nil
}

// SetRecentLookupCapacity changes the number of names tracked. Shrinking
// evicts the least recently looked-up names; zero disables tracking and
// discards every tracked name. The total is kept.
func (t *Table) SetRecentLookupCapacity(capacity uint64) error {
	if capacity > MaxRecentLookupsCapacity {
		return fmt.Errorf("%w: %d exceeds maximum %d", stats.ErrInvalidCapacity, capacity, MaxRecentLookupsCapacity)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.capacity = capacity
	if capacity == 0 {
		t.recent = nil
		return nil
	}
	if t.recent != nil {
		t.recent.Resize(int(capacity))
		return nil
	}
	recent, err := simplelru.NewLRU[string, uint64](int(capacity), nil)
	if err != nil {
		return fmt.Errorf("failed to create recent lookups tracker: %w", err)
	}
	t.recent = recent
	return nil
}

// RecentLookupCapacity returns the current capacity
func (t *Table) RecentLookupCapacity() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.capacity
}

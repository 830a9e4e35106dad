package admin

import (
	"sort"

	"github.com/songzhibin97/stargate-stats/pkg/stats"
)

// Scalar is a counter or gauge value captured in a snapshot
type Scalar struct {
	Name  string
	Value uint64
}

// Text is a text readout value captured in a snapshot
type Text struct {
	Name  string
	Value string
}

// Snapshot is the filtered, ordered view of a store for one render pass
type Snapshot struct {
	// Scalars holds counters and gauges, sorted by name
	Scalars []Scalar

	// TextReadouts is sorted by name
	TextReadouts []Text

	// Histograms is sorted by name. Instances sharing a name keep the order
	// in which the store returned them.
	Histograms []stats.ParentHistogram

	// Counters and Gauges are the metrics behind Scalars, sorted by name
	Counters []stats.Counter
	Gauges   []stats.Gauge
}

// Aggregate pulls every metric from store and keeps those that pass criteria.
// A gauge with an unresolved import mode that passes the filter is reported
// as an error wrapping stats.ErrUninitializedGauge.
func Aggregate(store stats.Store, criteria FilterCriteria) (*Snapshot, error) {
	snapshot := &Snapshot{}
	seen := make(map[string]struct{})

	for _, c := range store.Counters() {
		if !ShouldShow(c, criteria) {
			continue
		}
		if _, exists := seen[c.Name()]; exists {
			continue
		}
		seen[c.Name()] = struct{}{}
		snapshot.Counters = append(snapshot.Counters, c)
		snapshot.Scalars = append(snapshot.Scalars, Scalar{Name: c.Name(), Value: c.Value()})
	}

	for _, g := range store.Gauges() {
		if !ShouldShow(g, criteria) {
			continue
		}
		if g.ImportMode() == stats.ImportModeUninitialized {
			return nil, stats.NewStatsError("aggregate", g.Name(), stats.ErrUninitializedGauge)
		}
		if _, exists := seen[g.Name()]; exists {
			continue
		}
		seen[g.Name()] = struct{}{}
		snapshot.Gauges = append(snapshot.Gauges, g)
		snapshot.Scalars = append(snapshot.Scalars, Scalar{Name: g.Name(), Value: g.Value()})
	}

	for _, t := range store.TextReadouts() {
		if !ShouldShow(t, criteria) {
			continue
		}
		snapshot.TextReadouts = append(snapshot.TextReadouts, Text{Name: t.Name(), Value: t.Value()})
	}

	for _, h := range store.Histograms() {
		if ShouldShow(h, criteria) {
			snapshot.Histograms = append(snapshot.Histograms, h)
		}
	}

	sort.Slice(snapshot.Scalars, func(i, j int) bool {
		return snapshot.Scalars[i].Name < snapshot.Scalars[j].Name
	})
	sort.SliceStable(snapshot.TextReadouts, func(i, j int) bool {
		return snapshot.TextReadouts[i].Name < snapshot.TextReadouts[j].Name
	})
	sort.SliceStable(snapshot.Histograms, func(i, j int) bool {
		return snapshot.Histograms[i].Name() < snapshot.Histograms[j].Name()
	})
	sort.Slice(snapshot.Counters, func(i, j int) bool {
		return snapshot.Counters[i].Name() < snapshot.Counters[j].Name()
	})
	sort.Slice(snapshot.Gauges, func(i, j int) bool {
		return snapshot.Gauges[i].Name() < snapshot.Gauges[j].Name()
	})
	return snapshot, nil
}

// Empty reports whether no metric passed the filter
func (s *Snapshot) Empty() bool {
	return len(s.Scalars) == 0 && len(s.TextReadouts) == 0 && len(s.Histograms) == 0
}

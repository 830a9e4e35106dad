package admin

import (
	"fmt"
	"strings"

	"github.com/songzhibin97/stargate-stats/pkg/stats"
)

// DefaultRecentLookupsCapacity is the capacity set by the enable operation
// when none is configured
const DefaultRecentLookupsCapacity = 100

const (
	recentLookupsHeader   = "   Count Lookup\n"
	recentLookupsDisabled = "Lookup tracking is not enabled. Use /stats/recentlookups/enable to enable.\n"
	acknowledgement       = "OK\n"
)

// RenderRecentLookups reports the tracked names, most looked up first,
// followed by the total. A table with tracking disabled and nothing tracked
// reports a hint instead of an empty list.
func RenderRecentLookups(table stats.SymbolTable) string {
	var rows strings.Builder
	entries := 0
	total := table.RecentLookups(func(name string, count uint64) {
		fmt.Fprintf(&rows, "%8d %s\n", count, name)
		entries++
	})

	var b strings.Builder
	if entries == 0 && table.RecentLookupCapacity() == 0 {
		b.WriteString(recentLookupsDisabled)
	} else {
		b.WriteString(recentLookupsHeader)
		b.WriteString(rows.String())
	}
	fmt.Fprintf(&b, "\ntotal: %d\n", total)
	return b.String()
}

// resetCounters zeroes every counter, then clears the lookup tracker
func resetCounters(store stats.Store) error {
	counters := store.Counters()
	for _, c := range counters {
		c.Reset()
	}
	if err := store.SymbolTable().ClearRecentLookups(); err != nil {
		return fmt.Errorf("reset %d counters but failed to clear recent lookups: %w", len(counters), err)
	}
	return nil
}

// Package stats defines the metric store contract consumed by the stats admin.
//
// The admin never creates or mutates metrics on its own. It reads them through
// the Store interface, which hands out four kinds of metric sharing one Metric
// interface:
//
//	Counter:      a monotonically non-decreasing uint64
//	Gauge:        an arbitrary uint64 tagged with an ImportMode
//	TextReadout:  a string value
//	Histogram:    interval and cumulative quantile statistics
//
// # Quantile schema
//
// Every histogram in a store reports its quantiles against the same ordered
// list of cut-points, SupportedQuantiles. HistogramStatistics values always
// reference that list rather than carrying their own, so interval and
// cumulative views of any histogram pair up by index.
//
//	stats := stats.NewHistogramStatistics(computed, stats.DefaultSupportedBuckets, counts, n, sum)
//	for i, q := range stats.SupportedQuantiles() {
//		fmt.Printf("P%s = %s\n", stats.FormatValue(100*q), stats.FormatValue(stats.ComputedQuantiles()[i]))
//	}
//
// # Recent lookups
//
// Stores expose a SymbolTable that records how often metric names were
// resolved. Tracking is bounded by a capacity; zero disables it.
//
//	table := store.SymbolTable()
//	_ = table.SetRecentLookupCapacity(100)
//	total := table.RecentLookups(func(name string, count uint64) {
//		fmt.Printf("%8d %s\n", count, name)
//	})
package stats

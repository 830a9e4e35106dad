package stats

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ValidateName validates a metric name
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: metric name cannot be empty", ErrInvalidName)
	}
	return nil
}

// SanitizeName replaces every character outside [a-zA-Z0-9_] with an
// underscore, producing a name usable in the Prometheus exposition format.
func SanitizeName(name string) string {
	result := strings.Builder{}
	result.Grow(len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}
	return result.String()
}

// FormatValue formats v with the shortest representation that round-trips.
// NaN is rendered as "nan".
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatCompact formats v with at most six significant digits, matching the
// C "%g" verb. NaN is rendered as "nan".
func FormatCompact(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// QuantilePercent converts a quantile fraction to a percentage, rounded to six
// significant digits so that 0.999 becomes 99.9 rather than 99.89999999999999.
func QuantilePercent(q float64) float64 {
	percent, err := strconv.ParseFloat(strconv.FormatFloat(100*q, 'g', 6, 64), 64)
	if err != nil {
		return 100 * q
	}
	return percent
}

// FormatQuantileSummary renders both views of a histogram as
// "P0(interval,cumulative) P25(interval,cumulative) ...". Unused histograms
// render as "No recorded values".
func FormatQuantileSummary(used bool, interval, cumulative HistogramStatistics) string {
	if !used {
		return "No recorded values"
	}
	intervalQuantiles := interval.ComputedQuantiles()
	cumulativeQuantiles := cumulative.ComputedQuantiles()
	parts := make([]string, 0, len(SupportedQuantiles))
	for i, q := range SupportedQuantiles {
		iv, cv := math.NaN(), math.NaN()
		if i < len(intervalQuantiles) {
			iv = intervalQuantiles[i]
		}
		if i < len(cumulativeQuantiles) {
			cv = cumulativeQuantiles[i]
		}
		parts = append(parts, fmt.Sprintf("P%s(%s,%s)", FormatCompact(100*q), FormatValue(iv), FormatValue(cv)))
	}
	return strings.Join(parts, " ")
}

// FormatBucketSummary renders both views of the bucket counts as
// "B0.5(interval,cumulative) B1(interval,cumulative) ...".
func FormatBucketSummary(used bool, interval, cumulative HistogramStatistics) string {
	if !used {
		return "No recorded values"
	}
	bounds := cumulative.SupportedBuckets()
	intervalBuckets := interval.ComputedBuckets()
	cumulativeBuckets := cumulative.ComputedBuckets()
	parts := make([]string, 0, len(bounds))
	for i, bound := range bounds {
		var iv uint64
		if i < len(intervalBuckets) {
			iv = intervalBuckets[i]
		}
		parts = append(parts, fmt.Sprintf("B%s(%d,%d)", FormatCompact(bound), iv, cumulativeBuckets[i]))
	}
	return strings.Join(parts, " ")
}

// SortTags orders tags by name for consistent output
func SortTags(tags []Tag) {
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})
}

package prometheus

import (
	"math"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/songzhibin97/stargate-stats/pkg/stats"
)

// quantileTolerance is the distance under which a summary objective is
// matched to a supported quantile
const quantileTolerance = 1e-9

// seriesName builds the full name of one series: the family name followed by
// its labels in Prometheus selector syntax.
func seriesName(family string, labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return family
	}
	var b strings.Builder
	b.WriteString(family)
	b.WriteByte('{')
	for i, label := range labels {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(label.GetName())
		b.WriteString(`="`)
		b.WriteString(label.GetValue())
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

// convertLabelPairs converts Prometheus LabelPairs to tags
func convertLabelPairs(promLabels []*dto.LabelPair) []stats.Tag {
	if len(promLabels) == 0 {
		return nil
	}
	tags := make([]stats.Tag, len(promLabels))
	for i, promLabel := range promLabels {
		tags[i] = stats.Tag{
			Name:  promLabel.GetName(),
			Value: promLabel.GetValue(),
		}
	}
	stats.SortTags(tags)
	return tags
}

// convertValue truncates a sample value to the unsigned range used by
// counters and gauges
func convertValue(v float64) uint64 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= math.MaxUint64:
		return math.MaxUint64
	default:
		return uint64(v)
	}
}

// convertHistogramBuckets splits Prometheus histogram buckets into upper bounds
// and cumulative counts. The implicit +Inf bucket is dropped.
func convertHistogramBuckets(promBuckets []*dto.Bucket) ([]float64, []uint64) {
	bounds := make([]float64, 0, len(promBuckets))
	counts := make([]uint64, 0, len(promBuckets))
	for _, promBucket := range promBuckets {
		if math.IsInf(promBucket.GetUpperBound(), 1) {
			continue
		}
		bounds = append(bounds, promBucket.GetUpperBound())
		counts = append(counts, promBucket.GetCumulativeCount())
	}
	return bounds, counts
}

// convertSummaryQuantiles lines Prometheus summary objectives up with the
// supported quantiles. Cut-points without a matching objective are NaN.
func convertSummaryQuantiles(promQuantiles []*dto.Quantile) []float64 {
	computed := make([]float64, len(stats.SupportedQuantiles))
	for i, q := range stats.SupportedQuantiles {
		computed[i] = math.NaN()
		for _, promQuantile := range promQuantiles {
			if math.Abs(promQuantile.GetQuantile()-q) < quantileTolerance {
				computed[i] = promQuantile.GetValue()
				break
			}
		}
	}
	return computed
}

// bucketQuantiles estimates every supported quantile from cumulative bucket
// counts.
func bucketQuantiles(bounds []float64, cumulative []uint64, count uint64) []float64 {
	computed := make([]float64, len(stats.SupportedQuantiles))
	for i, q := range stats.SupportedQuantiles {
		computed[i] = bucketQuantile(q, bounds, cumulative, count)
	}
	return computed
}

// bucketQuantile estimates quantile q by linear interpolation inside the
// bucket holding rank q*count. The lower edge of the first bucket is zero.
// Ranks beyond the last finite bound report that bound.
func bucketQuantile(q float64, bounds []float64, cumulative []uint64, count uint64) float64 {
	if count == 0 || len(bounds) == 0 {
		return math.NaN()
	}
	rank := q * float64(count)
	for i, upper := range bounds {
		c := float64(cumulative[i])
		if c == 0 || c < rank {
			continue
		}
		lower, below := 0.0, 0.0
		if i > 0 {
			lower = bounds[i-1]
			below = float64(cumulative[i-1])
		}
		if upper <= lower || c == below {
			return upper
		}
		return lower + (upper-lower)*(rank-below)/(c-below)
	}
	return bounds[len(bounds)-1]
}

// bucketDelta subtracts a previous set of cumulative counts. Counts that went
// backwards, or a bucket layout that changed, restart from zero.
func bucketDelta(current, previous []uint64) []uint64 {
	delta := make([]uint64, len(current))
	if len(previous) != len(current) {
		copy(delta, current)
		return delta
	}
	for i := range current {
		if current[i] >= previous[i] {
			delta[i] = current[i] - previous[i]
		} else {
			delta[i] = current[i]
		}
	}
	return delta
}

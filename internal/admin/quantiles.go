package admin

import (
	"fmt"
	"math"

	"github.com/songzhibin97/stargate-stats/pkg/stats"
)

// QuantilePair holds the interval and cumulative value of one cut-point. A nil
// field stands for a value that is not a finite number.
type QuantilePair struct {
	Interval   *float64 `json:"interval"`
	Cumulative *float64 `json:"cumulative"`
}

// MergeQuantiles pairs the interval and cumulative quantiles of h by index.
// Both views must hold exactly schemaLen values.
func MergeQuantiles(h stats.ParentHistogram, schemaLen int) ([]QuantilePair, error) {
	interval := h.IntervalStatistics().ComputedQuantiles()
	cumulative := h.CumulativeStatistics().ComputedQuantiles()
	if len(interval) != schemaLen || len(cumulative) != schemaLen {
		return nil, stats.NewStatsError("merge quantiles", h.Name(),
			fmt.Errorf("%w: interval has %d values, cumulative has %d, schema has %d",
				stats.ErrQuantileSchemaMismatch, len(interval), len(cumulative), schemaLen))
	}

	pairs := make([]QuantilePair, schemaLen)
	for i := range pairs {
		pairs[i] = QuantilePair{
			Interval:   numberOrNil(interval[i]),
			Cumulative: numberOrNil(cumulative[i]),
		}
	}
	return pairs, nil
}

// SupportedQuantilePercents converts quantile fractions to percentages
func SupportedQuantilePercents(schema []float64) []float64 {
	percents := make([]float64, len(schema))
	for i, q := range schema {
		percents[i] = stats.QuantilePercent(q)
	}
	return percents
}

func numberOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

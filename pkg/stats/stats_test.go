package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistogramStatistics_SchemaMismatch(t *testing.T) {
	_, err := NewHistogramStatistics([]float64{1, 2, 3}, nil, nil, 3, 6)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuantileSchemaMismatch))
	assert.True(t, IsInternal(err))

	_, err = NewHistogramStatistics(make([]float64, len(SupportedQuantiles)), []float64{1, 2}, []uint64{1}, 1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidBuckets))
}

func TestEmptyStatistics(t *testing.T) {
	s := EmptyStatistics()
	require.Len(t, s.ComputedQuantiles(), len(SupportedQuantiles))
	for _, v := range s.ComputedQuantiles() {
		assert.True(t, math.IsNaN(v))
	}
	assert.Equal(t, uint64(0), s.SampleCount())
}

func TestHistogramStatistics_QuantileSummary(t *testing.T) {
	computed := []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, math.NaN()}
	s, err := NewHistogramStatistics(computed, nil, nil, 10, 3.6)
	require.NoError(t, err)

	assert.Equal(t,
		"P0: 0, P25: 0.1, P50: 0.2, P75: 0.3, P90: 0.4, P95: 0.5, P99: 0.6, P99.5: 0.7, P99.9: 0.8, P100: nan",
		s.QuantileSummary())
}

func TestHistogramStatistics_BucketSummary(t *testing.T) {
	s, err := NewHistogramStatistics(make([]float64, len(SupportedQuantiles)), []float64{0.5, 1, 5}, []uint64{0, 2, 3}, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, "B0.5: 0, B1: 2, B5: 3", s.BucketSummary())
}

func TestFormatQuantileSummary(t *testing.T) {
	assert.Equal(t, "No recorded values", FormatQuantileSummary(false, EmptyStatistics(), EmptyStatistics()))

	cumulative := make([]float64, len(SupportedQuantiles))
	for i := range cumulative {
		cumulative[i] = 1
	}
	c, err := NewHistogramStatistics(cumulative, nil, nil, 1, 1)
	require.NoError(t, err)

	summary := FormatQuantileSummary(true, EmptyStatistics(), c)
	assert.Equal(t,
		"P0(nan,1) P25(nan,1) P50(nan,1) P75(nan,1) P90(nan,1) P95(nan,1) P99(nan,1) P99.5(nan,1) P99.9(nan,1) P100(nan,1)",
		summary)
}

func TestQuantilePercent(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.25, 25},
		{0.995, 99.5},
		{0.999, 99.9},
		{1, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuantilePercent(tt.in))
	}
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "cluster_foo_upstream_rq", SanitizeName("cluster.foo.upstream-rq"))
	assert.Equal(t, "a_b_c", SanitizeName("a{b}c"))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "nan", FormatValue(math.NaN()))
	assert.Equal(t, "1.025", FormatValue(1.025))
	assert.Equal(t, "5", FormatValue(5))
}

func TestStatsError(t *testing.T) {
	err := NewStatsError("aggregate", "g1", ErrUninitializedGauge)
	assert.Equal(t, "stats: aggregate g1: gauge import mode is uninitialized", err.Error())
	assert.True(t, errors.Is(err, ErrUninitializedGauge))
	assert.True(t, IsStatsError(err))
	assert.True(t, IsInternal(err))
	assert.False(t, IsInternal(ErrInvalidCapacity))
}

func TestSortTags(t *testing.T) {
	tags := []Tag{{Name: "b", Value: "2"}, {Name: "a", Value: "1"}}
	SortTags(tags)
	assert.Equal(t, []Tag{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}, tags)
}

func TestImportMode_String(t *testing.T) {
	assert.Equal(t, "uninitialized", ImportModeUninitialized.String())
	assert.Equal(t, "accumulate", ImportModeAccumulate.String())
	assert.Equal(t, "unknown", ImportMode(42).String())
}

package admin

import (
	"errors"
	"net/url"
	"testing"

	"github.com/songzhibin97/stargate-stats/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterCriteria(t *testing.T) {
	criteria, err := ParseFilterCriteria(url.Values{})
	require.NoError(t, err)
	assert.False(t, criteria.UsedOnly)
	assert.Nil(t, criteria.Pattern)

	// usedonly is a presence flag, its value is ignored
	criteria, err = ParseFilterCriteria(query("usedonly=false"))
	require.NoError(t, err)
	assert.True(t, criteria.UsedOnly)

	criteria, err = ParseFilterCriteria(query(`filter=cluster\..*\.upstream_rq`))
	require.NoError(t, err)
	require.NotNil(t, criteria.Pattern)
	assert.True(t, criteria.Pattern.MatchString("cluster.backend.upstream_rq_total"))
}

func TestParseFilterCriteria_Invalid(t *testing.T) {
	_, err := ParseFilterCriteria(query("filter=a(b"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFilter))

	var filterErr *FilterError
	require.True(t, errors.As(err, &filterErr))
	assert.Equal(t, "a(b", filterErr.Pattern)
	assert.Contains(t, filterErr.Error(), `"a(b"`)

	// Perl classes are not part of POSIX ERE
	_, err = ParseFilterCriteria(query(`filter=\d+`))
	assert.True(t, errors.Is(err, ErrInvalidFilter))
}

func TestShouldShow(t *testing.T) {
	used := &fakeMetric{name: "cluster.a.upstream_rq", used: true}
	unused := &fakeMetric{name: "cluster.b.upstream_rq"}

	tests := []struct {
		name     string
		raw      string
		metric   stats.Metric
		expected bool
	}{
		{"no criteria", "", unused, true},
		{"used only hides unused", "usedonly", unused, false},
		{"used only keeps used", "usedonly", used, true},
		{"filter match", "filter=a", used, true},
		{"filter anchored miss", "filter=^a", used, false},
		{"filter and used only", "filter=b&usedonly", unused, false},
		{"filter and used only match", "filter=upstream&usedonly", used, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria, err := ParseFilterCriteria(query(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ShouldShow(tt.metric, criteria))
		})
	}
}

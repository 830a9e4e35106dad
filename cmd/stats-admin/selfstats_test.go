package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/songzhibin97/stargate-stats/internal/stats/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfStats(t *testing.T) {
	store := memory.New()
	self, err := newSelfStats(store, "v9.9.9")
	require.NoError(t, err)

	self.Observe(http.MethodGet, "/stats", http.StatusOK, 3*time.Millisecond)
	self.Observe(http.MethodGet, "/stats", http.StatusNotFound, time.Millisecond)
	self.Observe(http.MethodPost, "/reset_counters", http.StatusOK, time.Millisecond)

	values := make(map[string]uint64)
	for _, c := range store.Counters() {
		values[c.Name()] = c.Value()
	}
	assert.Equal(t, map[string]uint64{
		"admin.http.downstream_rq_total": 3,
		"admin.http.downstream_rq_2xx":   2,
		"admin.http.downstream_rq_4xx":   1,
	}, values)

	readouts := store.TextReadouts()
	require.Len(t, readouts, 1)
	assert.Equal(t, "v9.9.9", readouts[0].Value())

	histograms := store.Histograms()
	require.Len(t, histograms, 1)
	assert.True(t, histograms[0].Used())

	for _, c := range store.Counters() {
		if c.Name() == "admin.http.downstream_rq_4xx" {
			assert.Equal(t, "admin.http.downstream_rq_xx", c.TagExtractedName())
		}
	}
}

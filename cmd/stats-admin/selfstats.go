package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/songzhibin97/stargate-stats/internal/stats/store/memory"
	"github.com/songzhibin97/stargate-stats/pkg/stats"
)

// selfStats records the admin server's own traffic into a memory store, so a
// freshly started process has something to report
type selfStats struct {
	store    *memory.Store
	requests *memory.Counter
	latency  *memory.Histogram
}

func newSelfStats(store *memory.Store, version string) (*selfStats, error) {
	requests, err := store.Counter("admin.http.downstream_rq_total")
	if err != nil {
		return nil, err
	}
	latency, err := store.Histogram("admin.http.downstream_rq_time")
	if err != nil {
		return nil, err
	}
	startTime, err := store.Gauge("server.start_time", stats.ImportModeNeverImport)
	if err != nil {
		return nil, err
	}
	startTime.Set(uint64(time.Now().Unix()))
	readout, err := store.TextReadout("server.version")
	if err != nil {
		return nil, err
	}
	readout.Set(version)

	return &selfStats{
		store:    store,
		requests: requests,
		latency:  latency,
	}, nil
}

// Observe implements admin.RequestObserver. Responses are also counted per
// status class, e.g. admin.http.downstream_rq_2xx.
func (s *selfStats) Observe(method, route string, status int, duration time.Duration) {
	s.requests.Inc()
	s.latency.RecordValue(uint64(duration.Milliseconds()))

	class := strconv.Itoa(status / 100)
	counter, err := s.store.Counter(fmt.Sprintf("admin.http.downstream_rq_%sxx", class),
		memory.WithTags("admin.http.downstream_rq_xx", stats.Tag{Name: "response_code_class", Value: class}))
	if err != nil {
		return
	}
	counter.Inc()
}

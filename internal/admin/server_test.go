package admin

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/songzhibin97/stargate-stats/internal/config"
	"github.com/songzhibin97/stargate-stats/internal/log/driver/stdout"
	"github.com/songzhibin97/stargate-stats/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewServer_RequiresHandler(t *testing.T) {
	_, err := NewServer(config.Default().Admin, nil)
	assert.Error(t, err)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	var hookCalls []string
	server := newTestServer(t, newBasicStore(t),
		WithShutdownHook(func(context.Context) error {
			hookCalls = append(hookCalls, "flusher")
			return nil
		}),
		WithShutdownHook(func(context.Context) error {
			hookCalls = append(hookCalls, "tracing")
			return errors.New("exporter unreachable")
		}),
	)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- server.Serve(listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/stats")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "x: \"hi\"\na.b: 5\nc.d: 0\n", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = server.Shutdown(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exporter unreachable")
	assert.Equal(t, []string{"flusher", "tracing"}, hookCalls)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	// hooks run once
	assert.NoError(t, server.Shutdown(ctx))
	assert.Len(t, hookCalls, 2)
}

func TestRequestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := NewRequestMetrics(registry, "stargate")
	require.NoError(t, err)

	server := newTestServer(t, newBasicStore(t), WithRequestObserver(metrics.Observe))
	serve(server, http.MethodGet, "/stats")
	serve(server, http.MethodGet, "/stats?format=json")
	serve(server, http.MethodGet, "/stats?format=xml")
	serve(server, http.MethodGet, "/missing")

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("GET", PathStats, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("GET", PathStats, "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("GET", "/missing", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.requestDuration))

	_, err = NewRequestMetrics(registry, "stargate")
	assert.Error(t, err)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := stdout.DefaultConfig()
	cfg.EnableStacktrace = false
	cfg.Level = log.DebugLevel
	logger := stdout.NewWithCore(core, cfg)

	server := newTestServer(t, newBasicStore(t), WithLogger(logger))
	serve(server, http.MethodGet, "/stats?format=json")

	entries := logs.FilterMessage("Admin request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, PathStats, fields["path"])
	assert.Equal(t, "format=json", fields["query"])
	assert.Equal(t, int64(http.StatusOK), fields["status_code"])
}

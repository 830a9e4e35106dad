package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/songzhibin97/stargate-stats/internal/admin"
	"github.com/songzhibin97/stargate-stats/internal/config"
	"github.com/songzhibin97/stargate-stats/internal/log/driver/stdout"
	"github.com/songzhibin97/stargate-stats/internal/stats/flush"
	"github.com/songzhibin97/stargate-stats/internal/stats/store/memory"
	promstore "github.com/songzhibin97/stargate-stats/internal/stats/store/prometheus"
	"github.com/songzhibin97/stargate-stats/internal/stats/symbol"
	"github.com/songzhibin97/stargate-stats/internal/tracing"
	"github.com/songzhibin97/stargate-stats/pkg/log"
	"github.com/songzhibin97/stargate-stats/pkg/stats"
	"go.uber.org/multierr"
)

var (
	configFile = flag.String("config", "", "Configuration file path")
	version    = flag.Bool("version", false, "Show version information")
)

const (
	// Version information
	Version   = "v1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"

	appName = "stargate-stats"
)

// source is a store the admin server can read, flush and close
type source interface {
	stats.Store
	stats.Flusher
	Close() error
}

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("Stargate Stats %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stargate-stats: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logConfig, logOutput, err := stdout.FromConfig(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	defer logOutput.Close()
	logger, err := stdout.New(logConfig)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log.SetDefault(logger)

	appLogger := log.Service(appName, Version)
	appLogger.Info("Starting", log.StartupFields(appName, Version, os.Getpid(), startTime)...)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	tp, err := tracing.NewTracerProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	symbols := symbol.NewTable()
	if cfg.Stats.RecentLookups.EnabledOnStart {
		if err := symbols.SetRecentLookupCapacity(cfg.Stats.RecentLookups.Capacity); err != nil {
			return fmt.Errorf("failed to enable recent lookups: %w", err)
		}
	}

	store, observer, err := newSource(cfg, symbols)
	if err != nil {
		return err
	}
	appLogger.Info("Stats source initialized",
		log.String(log.FieldSource, cfg.Stats.Source),
		log.Uint64(log.FieldCapacity, symbols.RecentLookupCapacity()))

	flusher, err := flush.New(store, cfg.Stats.FlushInterval, flush.WithLogger(log.Component("stats.flush")))
	if err != nil {
		return err
	}
	if err := flusher.FlushNow(context.Background()); err != nil {
		appLogger.Warn("Initial stats flush failed", log.Error(err))
	}
	if err := flusher.Start(); err != nil {
		return err
	}

	handler, err := admin.NewHandler(admin.Options{
		Store:                 store,
		Logger:                log.Component("admin"),
		Tracer:                tp.Tracer("stargate-stats/admin"),
		Namespace:             cfg.Admin.Namespace,
		RecentLookupsCapacity: cfg.Stats.RecentLookups.Capacity,
	})
	if err != nil {
		return err
	}

	server, err := admin.NewServer(cfg.Admin, handler,
		admin.WithLogger(log.Component("admin.server")),
		admin.WithRequestObserver(observer),
		admin.WithShutdownHook(flusher.Stop),
		admin.WithShutdownHook(func(context.Context) error { return store.Close() }),
		admin.WithShutdownHook(tp.Shutdown),
	)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	reason := ""
	var serveErr error
	select {
	case sig := <-quit:
		reason = sig.String()
	case serveErr = <-errCh:
		reason = "server error"
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Admin.ShutdownTimeout)
	defer cancel()

	shutdownErr := server.Shutdown(ctx)
	appLogger.Info("Stopped", log.ShutdownFields(reason, time.Since(startTime))...)
	return multierr.Combine(serveErr, shutdownErr)
}

// newSource builds the configured store and the observer recording admin
// requests into it
func newSource(cfg *config.Config, symbols *symbol.Table) (source, admin.RequestObserver, error) {
	switch cfg.Stats.Source {
	case config.SourcePrometheus:
		registry := prometheus.NewRegistry()
		if cfg.Stats.ProcessCollectors {
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}
		metrics, err := admin.NewRequestMetrics(registry, cfg.Admin.Namespace)
		if err != nil {
			return nil, nil, err
		}
		store := promstore.New(promstore.Options{Gatherer: registry, SymbolTable: symbols})
		return store, metrics.Observe, nil

	default:
		store := memory.New(memory.WithSymbolTable(symbols))
		self, err := newSelfStats(store, Version)
		if err != nil {
			return nil, nil, err
		}
		return store, self.Observe, nil
	}
}

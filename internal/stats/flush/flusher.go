// Package flush latches histogram interval data on a fixed period.
package flush

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/songzhibin97/stargate-stats/pkg/log"
	"github.com/songzhibin97/stargate-stats/pkg/stats"
)

// Callback is called after every flush attempt
type Callback func(err error, duration time.Duration)

// Flusher flushes a store periodically
type Flusher struct {
	target   stats.Flusher
	interval time.Duration
	logger   log.Logger
	callback Callback

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Flusher
type Option func(*Flusher)

// WithLogger sets the flusher logger
func WithLogger(logger log.Logger) Option {
	return func(f *Flusher) {
		f.logger = logger
	}
}

// WithCallback reports the outcome of every flush to callback
func WithCallback(callback Callback) Option {
	return func(f *Flusher) {
		f.callback = callback
	}
}

// New creates a flusher for target
func New(target stats.Flusher, interval time.Duration, opts ...Option) (*Flusher, error) {
	if target == nil {
		return nil, fmt.Errorf("flush target is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("flush interval must be positive, got %s", interval)
	}

	f := &Flusher{
		target:   target,
		interval: interval,
		logger:   log.Component("stats.flush"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Start starts the flush loop
func (f *Flusher) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running {
		return fmt.Errorf("flusher is already running")
	}
	f.running = true
	f.stopCh = make(chan struct{})

	f.wg.Add(1)
	go f.run(f.stopCh)

	f.logger.Info("Stats flusher started", log.Duration(log.FieldInterval, f.interval))
	return nil
}

// Stop stops the flush loop and runs one last flush so that values recorded
// since the previous tick are latched. ctx bounds the last flush.
func (f *Flusher) Stop(ctx context.Context) error {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return nil
	}
	f.running = false
	close(f.stopCh)
	f.mu.Unlock()

	f.wg.Wait()
	err := f.flush(ctx)
	f.logger.Info("Stats flusher stopped")
	return err
}

// FlushNow flushes immediately, outside the periodic schedule
func (f *Flusher) FlushNow(ctx context.Context) error {
	return f.flush(ctx)
}

func (f *Flusher) run(stopCh <-chan struct{}) {
	defer f.wg.Done()

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), f.interval)
			_ = f.flush(ctx)
			cancel()
		}
	}
}

func (f *Flusher) flush(ctx context.Context) error {
	start := time.Now()
	err := f.target.Flush(ctx)
	duration := time.Since(start)

	if err != nil {
		f.logger.Warn("Stats flush failed", log.Error(err), log.Duration(log.FieldDuration, duration))
	}
	if f.callback != nil {
		f.callback(err, duration)
	}
	return err
}

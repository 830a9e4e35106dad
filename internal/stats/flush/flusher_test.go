package flush

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/songzhibin97/stargate-stats/internal/stats/store/memory"
	"github.com/songzhibin97/stargate-stats/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTarget struct {
	calls atomic.Int32
	err   error
}

func (t *countingTarget) Flush(ctx context.Context) error {
	t.calls.Add(1)
	return t.err
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, time.Second)
	assert.Error(t, err)

	_, err = New(&countingTarget{}, 0)
	assert.Error(t, err)
}

func TestFlusher_Periodic(t *testing.T) {
	target := &countingTarget{}
	f, err := New(target, 10*time.Millisecond, WithLogger(log.NewNop()))
	require.NoError(t, err)

	require.NoError(t, f.Start())
	assert.Error(t, f.Start())

	assert.Eventually(t, func() bool { return target.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, f.Stop(context.Background()))
	stopped := target.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, target.calls.Load())

	// stopping twice is a no-op
	require.NoError(t, f.Stop(context.Background()))
	assert.Equal(t, stopped, target.calls.Load())
}

func TestFlusher_Restart(t *testing.T) {
	target := &countingTarget{}
	f, err := New(target, time.Hour, WithLogger(log.NewNop()))
	require.NoError(t, err)

	require.NoError(t, f.Start())
	require.NoError(t, f.Stop(context.Background()))
	require.NoError(t, f.Start())
	require.NoError(t, f.Stop(context.Background()))
	assert.Equal(t, int32(2), target.calls.Load())
}

func TestFlusher_ReportsErrors(t *testing.T) {
	target := &countingTarget{err: errors.New("gather failed")}

	var reported atomic.Int32
	f, err := New(target, time.Hour,
		WithLogger(log.NewNop()),
		WithCallback(func(err error, _ time.Duration) {
			if err != nil {
				reported.Add(1)
			}
		}))
	require.NoError(t, err)

	err = f.FlushNow(context.Background())
	assert.EqualError(t, err, "gather failed")
	assert.Equal(t, int32(1), reported.Load())
}

func TestFlusher_LatchesMemoryStore(t *testing.T) {
	store := memory.New()
	h, err := store.Histogram("latency")
	require.NoError(t, err)
	h.RecordValue(42)

	f, err := New(store, time.Hour, WithLogger(log.NewNop()))
	require.NoError(t, err)
	require.NoError(t, f.Start())
	assert.Equal(t, uint64(0), h.CumulativeStatistics().SampleCount())

	require.NoError(t, f.Stop(context.Background()))
	assert.Equal(t, uint64(1), h.IntervalStatistics().SampleCount())
	assert.Equal(t, uint64(1), h.CumulativeStatistics().SampleCount())
}

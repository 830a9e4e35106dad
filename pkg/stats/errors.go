package stats

import (
	"errors"
	"fmt"
)

// Common errors for stats operations
var (
	// ErrInvalidName indicates an empty or malformed metric name
	ErrInvalidName = errors.New("invalid metric name")

	// ErrQuantileSchemaMismatch indicates computed quantiles that do not line
	// up with the shared quantile schema
	ErrQuantileSchemaMismatch = errors.New("quantile schema mismatch")

	// ErrInvalidBuckets indicates bucket bounds and counts of different length
	ErrInvalidBuckets = errors.New("invalid histogram buckets")

	// ErrUninitializedGauge indicates a gauge whose import mode was never set
	// reached a reporting path
	ErrUninitializedGauge = errors.New("gauge import mode is uninitialized")

	// ErrInvalidCapacity indicates a recent lookups capacity out of range
	ErrInvalidCapacity = errors.New("invalid recent lookups capacity")

	// ErrStoreClosed indicates the store has been closed
	ErrStoreClosed = errors.New("stats store is closed")
)

// StatsError represents an error tied to one metric
type StatsError struct {
	Op   string // operation that failed
	Name string // metric name
	Err  error  // underlying error
}

// Error implements the error interface
func (e *StatsError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("stats: %s %s: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("stats: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *StatsError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target
func (e *StatsError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewStatsError creates a new StatsError
func NewStatsError(op, name string, err error) *StatsError {
	return &StatsError{
		Op:   op,
		Name: name,
		Err:  err,
	}
}

// IsStatsError checks if an error is a StatsError
func IsStatsError(err error) bool {
	var se *StatsError
	return errors.As(err, &se)
}

// IsInternal reports whether err is a broken store invariant rather than a
// problem with the caller's input.
func IsInternal(err error) bool {
	return errors.Is(err, ErrQuantileSchemaMismatch) ||
		errors.Is(err, ErrUninitializedGauge) ||
		errors.Is(err, ErrInvalidBuckets)
}

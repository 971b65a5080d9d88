package metrics

import "errors"

// Sentinel errors for structural computation failures. Non-finite results
// from valid-shaped inputs are values, not errors.
var (
	// ErrEmptySeries reports a metric invoked on a zero-length sequence.
	ErrEmptySeries = errors.New("metrics: empty series")
	// ErrInsufficientData reports a diff-based metric invoked on fewer
	// than two observations, where no first difference exists.
	ErrInsufficientData = errors.New("metrics: at least two observations required")
	// ErrShortWindow reports a windowed metric invoked on a series
	// shorter than its window.
	ErrShortWindow = errors.New("metrics: series shorter than window")
	// ErrInvalidWindow reports a non-positive window parameter.
	ErrInvalidWindow = errors.New("metrics: window must be positive")
)

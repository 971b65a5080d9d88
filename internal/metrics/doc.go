// Package metrics implements the per-file statistics battery computed over
// closing-price and volume sequences.
//
// Every metric is a pure free function taking explicit slices and returning
// (value, error). Functions share no state and none depends on another
// metric's result, so each is independently testable against a fixed
// fixture. Compute runs the full battery in a fixed order and assembles a
// Report.
//
// # Error policy
//
// Structural failures return errors: diff-based metrics require at least two
// observations (ErrInsufficientData), the windowed metrics require the
// series to cover their window (ErrShortWindow), and the volume metrics
// require a non-empty volume sequence (ErrEmptySeries). Arithmetic that
// produces NaN or Inf from an otherwise well-formed input — a zero return
// volatility under the Sharpe ratio, a flat Bollinger band — is NOT an
// error: the non-finite value propagates to the caller as the computed
// result and presentation layers decide how to render it.
//
// # File layout
//
//   - stats.go: dispersion and large-change metrics over raw prices
//   - returns.go: the shared daily-returns basis and all return-derived metrics
//   - rolling.go: trailing-window moving average and Bollinger %B
//   - rsi.go: exponentially smoothed relative strength index
//   - volume.go: volume spike detection
//   - report.go: Params, Report, and the Compute orchestrator
package metrics

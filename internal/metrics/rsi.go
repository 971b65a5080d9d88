package metrics

import "math"

// RSI computes the Relative Strength Index at the last position.
//
// Positive and negated-negative first differences are smoothed with an
// exponential moving average of factor alpha = 1/window, seeded at the
// first difference and updated recursively over the whole series; the
// weighting is anchored at the series start, not a fixed trailing window.
// rs = gain/loss, RSI = 100 - 100/(1+rs). A zero smoothed loss drives rs
// to +Inf and the RSI to 100; a fully flat series yields NaN. Both
// propagate as results.
//
// A series shorter than the window does not cover the oscillator's span
// and fails with ErrShortWindow.
func RSI(prices []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, ErrInvalidWindow
	}
	if len(prices) < 2 {
		return 0, ErrInsufficientData
	}
	if len(prices) < window {
		return 0, ErrShortWindow
	}

	alpha := 1.0 / float64(window)

	d := prices[1] - prices[0]
	gain := math.Max(d, 0)
	loss := math.Max(-d, 0)

	for i := 2; i < len(prices); i++ {
		d = prices[i] - prices[i-1]
		gain = alpha*math.Max(d, 0) + (1-alpha)*gain
		loss = alpha*math.Max(-d, 0) + (1-alpha)*loss
	}

	rs := gain / loss
	return 100 - 100/(1+rs), nil
}

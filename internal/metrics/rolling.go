package metrics

// MovingAverage computes the trailing simple moving average over the last
// window observations and reports its final value. A series shorter than
// the window has no defined last value and fails with ErrShortWindow
// rather than silently returning zero.
func MovingAverage(prices []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, ErrInvalidWindow
	}
	if len(prices) < window {
		return 0, ErrShortWindow
	}
	return mean(prices[len(prices)-window:]), nil
}

// BollingerPercentB computes the %B indicator at the last position: the
// current price's position within the rolling mean ± nStd population
// standard deviations band over the trailing window. A zero in-window
// standard deviation collapses the band and yields NaN or ±Inf, which
// propagates as the result.
func BollingerPercentB(prices []float64, window int, nStd float64) (float64, error) {
	if window <= 0 {
		return 0, ErrInvalidWindow
	}
	if len(prices) < window {
		return 0, ErrShortWindow
	}
	tail := prices[len(prices)-window:]
	mid := mean(tail)
	sd := stdDev(tail)
	upper := mid + nStd*sd
	lower := mid - nStd*sd
	last := prices[len(prices)-1]
	return (last - lower) / (upper - lower), nil
}

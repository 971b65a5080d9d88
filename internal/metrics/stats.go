package metrics

import "math"

// mean returns the arithmetic mean. Callers guard against empty input.
func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev returns the population standard deviation (denominator n, not n-1).
func stdDev(xs []float64) float64 {
	m := mean(xs)
	sumSq := 0.0
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

// StdDevPercent computes the population standard deviation of prices as a
// percentage of the mean price.
func StdDevPercent(prices []float64) (float64, error) {
	if len(prices) == 0 {
		return 0, ErrEmptySeries
	}
	return stdDev(prices) / mean(prices) * 100, nil
}

// LargeChangeCount counts days whose absolute close-to-close change exceeds
// deltaPct percent of the previous close. Strict inequality.
func LargeChangeCount(prices []float64, deltaPct float64) (int, error) {
	if len(prices) < 2 {
		return 0, ErrInsufficientData
	}
	count := 0
	for i := 0; i < len(prices)-1; i++ {
		change := math.Abs(prices[i+1]-prices[i]) / prices[i] * 100
		if change > deltaPct {
			count++
		}
	}
	return count, nil
}

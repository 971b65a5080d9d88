package metrics

import "math"

// tradingDaysPerYear is the annualization factor for daily returns.
const tradingDaysPerYear = 252

// dailyReturns builds the shared returns basis diff(P)/P[:-1]. Every
// return-derived metric uses this exact basis.
func dailyReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, ErrInsufficientData
	}
	rets := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		rets[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
	}
	return rets, nil
}

// AvgDailyReturn computes the mean daily return in percent.
func AvgDailyReturn(prices []float64) (float64, error) {
	rets, err := dailyReturns(prices)
	if err != nil {
		return 0, err
	}
	return mean(rets) * 100, nil
}

// AnnualizedVolatility computes the population standard deviation of daily
// returns scaled by sqrt(252), in percent.
func AnnualizedVolatility(prices []float64) (float64, error) {
	rets, err := dailyReturns(prices)
	if err != nil {
		return 0, err
	}
	return stdDev(rets) * math.Sqrt(tradingDaysPerYear) * 100, nil
}

// SharpeRatio computes mean(returns)/std(returns) scaled by sqrt(252),
// assuming a zero risk-free rate. A zero return volatility yields ±Inf or
// NaN, which propagates as the result.
func SharpeRatio(prices []float64) (float64, error) {
	rets, err := dailyReturns(prices)
	if err != nil {
		return 0, err
	}
	return mean(rets) / stdDev(rets) * math.Sqrt(tradingDaysPerYear), nil
}

// MaxDrawdown computes the largest peak-to-trough decline of the cumulative
// return path, in percent. Single monotonic running-maximum scan.
func MaxDrawdown(prices []float64) (float64, error) {
	rets, err := dailyReturns(prices)
	if err != nil {
		return 0, err
	}
	growth := 1.0
	peak := math.Inf(-1)
	maxDD := math.Inf(-1)
	for _, r := range rets {
		growth *= 1 + r
		cum := growth - 1
		if cum > peak {
			peak = cum
		}
		if dd := peak - cum; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD * 100, nil
}

// PositiveDayRate computes the percentage of days with a strictly positive
// return. Zero-return days are excluded.
func PositiveDayRate(prices []float64) (float64, error) {
	rets, err := dailyReturns(prices)
	if err != nil {
		return 0, err
	}
	positive := 0
	for _, r := range rets {
		if r > 0 {
			positive++
		}
	}
	return float64(positive) / float64(len(rets)) * 100, nil
}

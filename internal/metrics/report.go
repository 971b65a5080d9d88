package metrics

import "fmt"

// Default tuning parameters for the metric battery.
const (
	DefaultLargeChangeDeltaPct  = 10.0
	DefaultVolumeSpikeThreshold = 2.0
	DefaultMAWindow             = 20
	DefaultBollingerWindow      = 20
	DefaultBollingerNStd        = 2.0
	DefaultRSIWindow            = 14
)

// Params carries the tuning knobs for the metric battery. There is no
// implicit global configuration; callers pass Params explicitly.
type Params struct {
	LargeChangeDeltaPct  float64 `json:"large_change_delta_pct"`
	VolumeSpikeThreshold float64 `json:"volume_spike_threshold"`
	MAWindow             int     `json:"ma_window"`
	BollingerWindow      int     `json:"bollinger_window"`
	BollingerNStd        float64 `json:"bollinger_n_std"`
	RSIWindow            int     `json:"rsi_window"`
}

// DefaultParams returns the standard battery configuration.
func DefaultParams() Params {
	return Params{
		LargeChangeDeltaPct:  DefaultLargeChangeDeltaPct,
		VolumeSpikeThreshold: DefaultVolumeSpikeThreshold,
		MAWindow:             DefaultMAWindow,
		BollingerWindow:      DefaultBollingerWindow,
		BollingerNStd:        DefaultBollingerNStd,
		RSIWindow:            DefaultRSIWindow,
	}
}

// IsValid checks that thresholds and windows are usable.
func (p Params) IsValid() bool {
	return p.LargeChangeDeltaPct > 0 && p.VolumeSpikeThreshold > 0 &&
		p.MAWindow > 0 && p.BollingerWindow > 0 && p.BollingerNStd > 0 &&
		p.RSIWindow > 0
}

// Report holds the full metric battery for one input file. Values may be
// NaN or ±Inf where the formulas degenerate; those are valid results and
// presentation layers render them explicitly.
type Report struct {
	StdDevPct         float64 `json:"std_dev_pct"`
	LargeChanges      int     `json:"large_changes"`
	AvgDailyReturnPct float64 `json:"avg_daily_return_pct"`
	AnnualVolPct      float64 `json:"annual_volatility_pct"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	MaxDrawdownPct    float64 `json:"max_drawdown_pct"`
	PositiveDaysPct   float64 `json:"positive_days_pct"`
	MovingAverage     float64 `json:"moving_average"`
	BollingerPctB     float64 `json:"bollinger_pct_b"`
	RSI               float64 `json:"rsi"`
	VolumeSpikes      int     `json:"volume_spikes"`
}

// Compute runs the full battery over the price and volume sequences in
// fixed order. The first structural failure aborts the remaining metrics
// and fails the whole report; there are no partial reports.
func Compute(prices, volumes []float64, p Params) (Report, error) {
	var rep Report
	var err error

	if rep.StdDevPct, err = StdDevPercent(prices); err != nil {
		return Report{}, fmt.Errorf("standard deviation: %w", err)
	}
	if rep.LargeChanges, err = LargeChangeCount(prices, p.LargeChangeDeltaPct); err != nil {
		return Report{}, fmt.Errorf("large changes: %w", err)
	}
	if rep.AvgDailyReturnPct, err = AvgDailyReturn(prices); err != nil {
		return Report{}, fmt.Errorf("average daily return: %w", err)
	}
	if rep.AnnualVolPct, err = AnnualizedVolatility(prices); err != nil {
		return Report{}, fmt.Errorf("annualized volatility: %w", err)
	}
	if rep.SharpeRatio, err = SharpeRatio(prices); err != nil {
		return Report{}, fmt.Errorf("sharpe ratio: %w", err)
	}
	if rep.MaxDrawdownPct, err = MaxDrawdown(prices); err != nil {
		return Report{}, fmt.Errorf("max drawdown: %w", err)
	}
	if rep.PositiveDaysPct, err = PositiveDayRate(prices); err != nil {
		return Report{}, fmt.Errorf("positive days: %w", err)
	}
	if rep.MovingAverage, err = MovingAverage(prices, p.MAWindow); err != nil {
		return Report{}, fmt.Errorf("moving average: %w", err)
	}
	if rep.BollingerPctB, err = BollingerPercentB(prices, p.BollingerWindow, p.BollingerNStd); err != nil {
		return Report{}, fmt.Errorf("bollinger %%B: %w", err)
	}
	if rep.RSI, err = RSI(prices, p.RSIWindow); err != nil {
		return Report{}, fmt.Errorf("rsi: %w", err)
	}
	if rep.VolumeSpikes, err = VolumeSpikeCount(volumes, p.VolumeSpikeThreshold); err != nil {
		return Report{}, fmt.Errorf("volume spikes: %w", err)
	}

	return rep, nil
}

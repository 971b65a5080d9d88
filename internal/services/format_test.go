package services

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpulse/internal/metrics"
)

func TestSymbolFromFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase csv", in: "aapl.csv", want: "AAPL"},
		{name: "mixed case", in: "Msft.CSV", want: "MSFT"},
		{name: "path stripped", in: "uploads/2024/goog.csv", want: "GOOG"},
		{name: "workbook", in: "tsla.xlsx", want: "TSLA"},
		{name: "no extension", in: "ibm", want: "IBM"},
		{name: "dotted name keeps inner dots", in: "brk.b.csv", want: "BRK.B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SymbolFromFilename(tt.in))
		})
	}
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, isWorkbook("data.xlsx"))
	assert.True(t, isWorkbook("DATA.XLSX"))
	assert.False(t, isWorkbook("data.csv"))
	assert.False(t, isWorkbook("data.xlsx.csv"))
	assert.False(t, isWorkbook("data"))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "12.35%", formatValue(12.345, "%"))
	assert.Equal(t, "0.50", formatValue(0.5, ""))
	assert.Equal(t, "-3.00%", formatValue(-3, "%"))
	assert.Equal(t, "NaN", formatValue(math.NaN(), "%"))
	assert.Equal(t, "Inf", formatValue(math.Inf(1), ""))
	assert.Equal(t, "-Inf", formatValue(math.Inf(-1), ""))
}

func TestSuccessResult(t *testing.T) {
	report := metrics.Report{
		StdDevPct:         7.0710678,
		LargeChanges:      2,
		AvgDailyReturnPct: 0.1234,
		AnnualVolPct:      25.5,
		SharpeRatio:       1.5,
		MaxDrawdownPct:    30,
		PositiveDaysPct:   55.5555,
		MovingAverage:     101.234,
		BollingerPctB:     0.5,
		RSI:               62.5,
		VolumeSpikes:      1,
	}

	res := successResult("AAPL", report)

	require.True(t, res.Success)
	assert.Equal(t, "AAPL", res.Symbol)
	assert.Equal(t, "https://www.wsj.com/market-data/quotes/AAPL", res.ChartLink)
	assert.Empty(t, res.ErrorKind)
	require.NotNil(t, res.Metrics)
	assert.Equal(t, report, *res.Metrics)

	assert.Equal(t, "AAPL", res.Display["file_name"])
	assert.Equal(t, "https://www.wsj.com/market-data/quotes/AAPL", res.Display["chart_link"])
	assert.Equal(t, "7.07%", res.Display["std_dev"])
	assert.Equal(t, 2, res.Display["large_changes"])
	assert.Equal(t, "0.12%", res.Display["avg_daily_return"])
	assert.Equal(t, "25.50%", res.Display["annual_volatility"])
	assert.Equal(t, "1.50", res.Display["sharpe_ratio"])
	assert.Equal(t, "30.00%", res.Display["max_drawdown"])
	assert.Equal(t, "55.56%", res.Display["positive_days"])
	assert.Equal(t, "101.23", res.Display["moving_average"])
	assert.Equal(t, "0.50", res.Display["bollinger_pctB"])
	assert.Equal(t, "62.50", res.Display["rsi"])
	assert.Equal(t, 1, res.Display["volume_spikes"])
}

func TestSuccessResultNonFinite(t *testing.T) {
	report := metrics.Report{
		SharpeRatio:   math.Inf(1),
		BollingerPctB: math.NaN(),
	}

	res := successResult("FLAT", report)

	assert.Equal(t, "Inf", res.Display["sharpe_ratio"])
	assert.Equal(t, "NaN", res.Display["bollinger_pctB"])
}

func TestFailedResult(t *testing.T) {
	err := errors.New("malformed row 3")
	res := failedResult("uploads/bad file.csv", KindParseError, err)

	require.False(t, res.Success)
	assert.Equal(t, "BAD FILE", res.Symbol)
	assert.Equal(t, "N/A", res.ChartLink)
	assert.Equal(t, KindParseError, res.ErrorKind)
	assert.Equal(t, "malformed row 3", res.Error)
	assert.Nil(t, res.Metrics)

	assert.Equal(t, "uploads/bad file.csv", res.Display["file_name"])
	assert.Equal(t, "N/A", res.Display["chart_link"])
	assert.Equal(t, "malformed row 3", res.Display["error"])
	for _, field := range []string{
		"std_dev", "large_changes", "avg_daily_return", "annual_volatility",
		"sharpe_ratio", "max_drawdown", "positive_days", "moving_average",
		"bollinger_pctB", "rsi", "volume_spikes",
	} {
		assert.Equal(t, "Error", res.Display[field], field)
	}
}

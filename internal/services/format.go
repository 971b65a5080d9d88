package services

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"stockpulse/internal/metrics"
)

const chartLinkBase = "https://www.wsj.com/market-data/quotes/"

// SymbolFromFilename derives the display symbol from an uploaded file
// name: base name, extension stripped, uppercased.
func SymbolFromFilename(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToUpper(base)
}

// ChartLink builds the external quote page link for a symbol
func ChartLink(symbol string) string {
	return chartLinkBase + symbol
}

// isWorkbook reports whether the file should be parsed as an xlsx workbook
func isWorkbook(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}

// formatValue renders a metric for display with two decimals and an
// optional suffix. Non-finite values are spelled out rather than
// formatted, so degenerate metrics stay visible.
func formatValue(v float64, suffix string) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	default:
		return fmt.Sprintf("%.2f%s", v, suffix)
	}
}

// successResult builds the result record for an analyzed file
func successResult(symbol string, report metrics.Report) FileResult {
	return FileResult{
		Symbol:    symbol,
		ChartLink: ChartLink(symbol),
		Success:   true,
		Metrics:   &report,
		Display: map[string]interface{}{
			"file_name":         symbol,
			"chart_link":        ChartLink(symbol),
			"std_dev":           formatValue(report.StdDevPct, "%"),
			"large_changes":     report.LargeChanges,
			"avg_daily_return":  formatValue(report.AvgDailyReturnPct, "%"),
			"annual_volatility": formatValue(report.AnnualVolPct, "%"),
			"sharpe_ratio":      formatValue(report.SharpeRatio, ""),
			"max_drawdown":      formatValue(report.MaxDrawdownPct, "%"),
			"positive_days":     formatValue(report.PositiveDaysPct, "%"),
			"moving_average":    formatValue(report.MovingAverage, ""),
			"bollinger_pctB":    formatValue(report.BollingerPctB, ""),
			"rsi":               formatValue(report.RSI, ""),
			"volume_spikes":     report.VolumeSpikes,
		},
	}
}

// failedResult builds the error record for a rejected file. The
// original file name is kept so the caller can identify the upload.
func failedResult(name, kind string, err error) FileResult {
	display := map[string]interface{}{
		"file_name":  name,
		"chart_link": "N/A",
		"error":      err.Error(),
	}
	for _, field := range []string{
		"std_dev", "large_changes", "avg_daily_return", "annual_volatility",
		"sharpe_ratio", "max_drawdown", "positive_days", "moving_average",
		"bollinger_pctB", "rsi", "volume_spikes",
	} {
		display[field] = "Error"
	}

	return FileResult{
		Symbol:    SymbolFromFilename(name),
		ChartLink: "N/A",
		Success:   false,
		ErrorKind: kind,
		Error:     err.Error(),
		Display:   display,
	}
}

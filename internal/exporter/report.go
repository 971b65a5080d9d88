package exporter

import (
	"context"
	"fmt"
	"time"

	"stockpulse/internal/infrastructure"
	"stockpulse/internal/services"
)

// ReportWriter renders analysis batches as CSV report files
type ReportWriter struct {
	writer *CSVWriter
	bm     *infrastructure.BusinessMetrics
	now    func() time.Time
}

// NewReportWriter creates a report writer targeting dir. The metrics
// argument may be nil.
func NewReportWriter(dir string, bm *infrastructure.BusinessMetrics) *ReportWriter {
	return &ReportWriter{
		writer: NewCSVWriter(dir),
		bm:     bm,
		now:    time.Now,
	}
}

// WriteReport writes one row per result into a timestamped CSV file
// and returns the path it wrote.
func (r *ReportWriter) WriteReport(results []services.FileResult) (string, error) {
	name := fmt.Sprintf("analysis_%s.csv", r.now().UTC().Format("20060102_150405"))

	records := make([][]string, 0, len(results))
	for _, res := range results {
		records = append(records, resultToRow(res))
	}

	if err := r.writer.WriteSimpleCSV(name, reportHeaders(), records); err != nil {
		return "", fmt.Errorf("writing report %s: %w", name, err)
	}

	if r.bm != nil {
		r.bm.ReportsExportedTotal.Add(context.Background(), 1)
	}

	return r.writer.resolvePath(name), nil
}

func reportHeaders() []string {
	return []string{
		"Symbol", "Status", "Std Dev %", "Large Changes", "Avg Daily Return %",
		"Annual Volatility %", "Sharpe Ratio", "Max Drawdown %", "Positive Days %",
		"Moving Average", "Bollinger %B", "RSI", "Volume Spikes", "Error",
	}
}

func resultToRow(res services.FileResult) []string {
	if !res.Success || res.Metrics == nil {
		return []string{
			res.Symbol, "failed",
			"", "", "", "", "", "", "", "", "", "", "",
			res.Error,
		}
	}

	m := res.Metrics
	return []string{
		res.Symbol, "ok",
		formatFloat(m.StdDevPct),
		formatInt(m.LargeChanges),
		formatFloat(m.AvgDailyReturnPct),
		formatFloat(m.AnnualVolPct),
		formatFloat(m.SharpeRatio),
		formatFloat(m.MaxDrawdownPct),
		formatFloat(m.PositiveDaysPct),
		formatFloat(m.MovingAverage),
		formatFloat(m.BollingerPctB),
		formatFloat(m.RSI),
		formatInt(m.VolumeSpikes),
		"",
	}
}

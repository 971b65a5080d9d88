package http

import (
	"context"

	"stockpulse/internal/services"
)

// AnalysisServiceInterface is what the analysis handler needs from the
// service layer. Kept minimal so tests can substitute a fake.
type AnalysisServiceInterface interface {
	Defaults() services.Options
	AnalyzeBatch(ctx context.Context, inputs []services.FileInput, opts services.Options) []services.FileResult
}

// ReportExporter persists a batch of results as a report file and
// returns the path it wrote.
type ReportExporter interface {
	WriteReport(results []services.FileResult) (string, error)
}

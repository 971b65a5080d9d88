package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"stockpulse/internal/infrastructure"
	"stockpulse/internal/metrics"
	"stockpulse/internal/series"
)

// Error kinds attached to failed file results
const (
	KindParseError  = "parse_error"
	KindSchemaError = "schema_error"
	KindEmptyData   = "empty_data"
	KindMetricError = "metric_error"
)

// Options carries the per-request analysis configuration
type Options struct {
	MaxDays int
	Params  metrics.Params
}

// FileInput is one uploaded file to analyze
type FileInput struct {
	Name   string
	Reader io.Reader
}

// FileResult is the outcome of analyzing one file. Failed files carry
// an error kind and message; successful ones carry the raw metric
// report. Display always holds the formatted record for rendering.
type FileResult struct {
	Symbol    string                 `json:"file_name"`
	ChartLink string                 `json:"chart_link"`
	Success   bool                   `json:"success"`
	ErrorKind string                 `json:"error_kind,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Metrics   *metrics.Report        `json:"metrics,omitempty"`
	Display   map[string]interface{} `json:"display"`
}

// ProgressBroadcaster receives live batch progress. The websocket hub
// implements it; a nil broadcaster disables progress reporting.
type ProgressBroadcaster interface {
	BroadcastProgress(symbol string, current, total int)
	BroadcastFileResult(symbol string, success bool, errorKind string)
	BroadcastBatchComplete(files, failures int, duration time.Duration)
}

// AnalysisService runs the metric battery over uploaded files
type AnalysisService struct {
	logger   *slog.Logger
	hub      ProgressBroadcaster
	bm       *infrastructure.BusinessMetrics
	defaults Options
	workers  int
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(logger *slog.Logger, hub ProgressBroadcaster, bm *infrastructure.BusinessMetrics, defaults Options, workers int) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if defaults.MaxDays <= 0 {
		defaults.MaxDays = series.DefaultMaxDays
	}
	if !defaults.Params.IsValid() {
		defaults.Params = metrics.DefaultParams()
	}
	if workers <= 0 {
		workers = 4
	}

	return &AnalysisService{
		logger:   logger.With(slog.String("component", "analysis_service")),
		hub:      hub,
		bm:       bm,
		defaults: defaults,
		workers:  workers,
	}
}

// Defaults returns the service's default analysis options
func (s *AnalysisService) Defaults() Options {
	return s.defaults
}

// AnalyzeFile parses one file and computes its metric battery.
// Failures are folded into the result, never returned as an error.
func (s *AnalysisService) AnalyzeFile(ctx context.Context, in FileInput, opts Options) FileResult {
	start := time.Now()
	logger := infrastructure.LoggerWithContext(ctx).With(
		slog.String("component", "analysis_service"),
		slog.String("file", in.Name),
	)

	symbol := SymbolFromFilename(in.Name)

	prices, volumes, err := s.load(in, opts.MaxDays)
	if err != nil {
		logger.WarnContext(ctx, "file rejected",
			slog.String("error", err.Error()))
		infrastructure.RecordAnalysisMetrics(ctx, s.bm, symbol, time.Since(start), err)
		return failedResult(in.Name, classifyLoadError(err), err)
	}

	if s.bm != nil {
		s.bm.RowsParsedTotal.Add(ctx, int64(len(prices)))
	}

	report, err := metrics.Compute(prices, volumes, opts.Params)
	if err != nil {
		logger.WarnContext(ctx, "metric computation failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()))
		infrastructure.RecordAnalysisMetrics(ctx, s.bm, symbol, time.Since(start), err)
		return failedResult(in.Name, KindMetricError, err)
	}

	infrastructure.RecordAnalysisMetrics(ctx, s.bm, symbol, time.Since(start), nil)
	logger.InfoContext(ctx, "file analyzed",
		slog.String("symbol", symbol),
		slog.Int("days", len(prices)),
		slog.Duration("duration", time.Since(start)))

	return successResult(symbol, report)
}

// AnalyzeBatch runs every file through AnalyzeFile concurrently and
// returns results in input order. Cancellation of ctx stops scheduling
// of new files.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, inputs []FileInput, opts Options) []FileResult {
	start := time.Now()
	results := make([]FileResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	var done atomic.Int64
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = failedResult(in.Name, KindParseError, err)
				return nil
			}

			results[i] = s.AnalyzeFile(ctx, in, opts)

			current := int(done.Add(1))
			if s.hub != nil {
				s.hub.BroadcastProgress(results[i].Symbol, current, len(inputs))
				s.hub.BroadcastFileResult(results[i].Symbol, results[i].Success, results[i].ErrorKind)
			}
			return nil
		})
	}

	// Workers never return errors; failures live in the results.
	_ = g.Wait()

	failures := 0
	for _, r := range results {
		if !r.Success {
			failures++
		}
	}

	infrastructure.RecordBatchMetrics(ctx, s.bm, len(inputs), time.Since(start))
	if s.hub != nil {
		s.hub.BroadcastBatchComplete(len(inputs), failures, time.Since(start))
	}

	s.logger.InfoContext(ctx, "batch complete",
		slog.Int("files", len(inputs)),
		slog.Int("failures", failures),
		slog.Duration("duration", time.Since(start)))

	return results
}

// load picks the parser by file extension
func (s *AnalysisService) load(in FileInput, maxDays int) (series.PriceSeries, series.VolumeSeries, error) {
	if isWorkbook(in.Name) {
		return series.LoadWorkbook(in.Reader, maxDays)
	}
	return series.Load(in.Reader, maxDays)
}

// classifyLoadError maps parser sentinels onto result error kinds
func classifyLoadError(err error) string {
	switch {
	case errors.Is(err, series.ErrSchema):
		return KindSchemaError
	case errors.Is(err, series.ErrEmptyData):
		return KindEmptyData
	default:
		return KindParseError
	}
}

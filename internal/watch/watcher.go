// Package watch periodically rescans a directory of price files and
// runs the analysis battery over whatever it finds, writing a CSV
// report per sweep.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"stockpulse/internal/services"
)

// BatchAnalyzer runs the analysis battery over a set of inputs
type BatchAnalyzer interface {
	Defaults() services.Options
	AnalyzeBatch(ctx context.Context, inputs []services.FileInput, opts services.Options) []services.FileResult
}

// ReportExporter persists sweep results
type ReportExporter interface {
	WriteReport(results []services.FileResult) (string, error)
}

// Watcher schedules directory sweeps with cron
type Watcher struct {
	cron     *cron.Cron
	dir      string
	service  BatchAnalyzer
	exporter ReportExporter
	logger   *slog.Logger
}

// NewWatcher creates a watcher over dir. The exporter may be nil to
// skip report files.
func NewWatcher(dir string, service BatchAnalyzer, exporter ReportExporter, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		cron:     cron.New(),
		dir:      dir,
		service:  service,
		exporter: exporter,
		logger:   logger.With(slog.String("component", "watcher")),
	}
}

// Register schedules the sweep. The schedule uses the standard cron
// format plus the @every and @hourly style descriptors.
func (w *Watcher) Register(schedule string) error {
	_, err := w.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := w.Sweep(ctx); err != nil {
			w.logger.ErrorContext(ctx, "scheduled sweep failed",
				slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("register sweep schedule %q: %w", schedule, err)
	}
	return nil
}

// Start starts the cron scheduler
func (w *Watcher) Start() {
	w.cron.Start()
	w.logger.Info("watcher started", slog.String("dir", w.dir))
}

// Stop stops the scheduler and waits for a running sweep to finish
func (w *Watcher) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Info("watcher stopped")
}

// Sweep analyzes every price file currently in the directory. An
// empty directory is not an error; it just produces no report.
func (w *Watcher) Sweep(ctx context.Context) error {
	paths, err := w.listFiles()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		w.logger.InfoContext(ctx, "sweep found no files", slog.String("dir", w.dir))
		return nil
	}

	inputs := make([]services.FileInput, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("opening %s: %w", p, err)
		}
		defer f.Close()
		inputs = append(inputs, services.FileInput{Name: filepath.Base(p), Reader: f})
	}

	results := w.service.AnalyzeBatch(ctx, inputs, w.service.Defaults())

	failures := 0
	for _, r := range results {
		if !r.Success {
			failures++
		}
	}
	w.logger.InfoContext(ctx, "sweep complete",
		slog.Int("files", len(results)),
		slog.Int("failures", failures))

	if w.exporter != nil {
		path, err := w.exporter.WriteReport(results)
		if err != nil {
			return fmt.Errorf("exporting sweep report: %w", err)
		}
		w.logger.InfoContext(ctx, "sweep report written", slog.String("path", path))
	}

	return nil
}

// listFiles returns the analyzable files in the watch directory in
// name order.
func (w *Watcher) listFiles() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("reading watch dir %s: %w", w.dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".csv" || ext == ".xlsx" {
			paths = append(paths, filepath.Join(w.dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

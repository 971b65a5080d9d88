package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"stockpulse/internal/app"
	"stockpulse/internal/config"
	"stockpulse/internal/exporter"
	"stockpulse/internal/fetch"
	"stockpulse/internal/infrastructure"
	"stockpulse/internal/services"
	"stockpulse/internal/watch"
)

// stringList collects repeated flag values
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var urls stringList
	dir := flag.String("dir", "", "directory of CSV/XLSX files to analyze")
	flag.Var(&urls, "url", "remote file URL to analyze (repeatable)")
	watchMode := flag.Bool("watch", false, "keep running and rescan -dir on a schedule")
	schedule := flag.String("schedule", "", "cron schedule for -watch (defaults to the configured schedule)")
	export := flag.Bool("export", false, "write a CSV report of the results")
	outDir := flag.String("out", "", "report output directory (defaults to the configured directory)")
	maxDays := flag.Int("max-days", 0, "override the trailing-days window")
	asJSON := flag.Bool("json", false, "print results as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := infrastructure.MustInitializeLogger(cfg.Logging)

	opts := app.OptionsFromConfig(cfg.Analysis)
	if *maxDays > 0 {
		opts.MaxDays = *maxDays
	}

	service := services.NewAnalysisService(logger, nil, nil, opts, cfg.Analysis.Workers)

	reportDir := cfg.Export.Dir
	if *outDir != "" {
		reportDir = *outDir
	}
	var reporter *exporter.ReportWriter
	if *export || *watchMode {
		reporter = exporter.NewReportWriter(reportDir, nil)
	}

	if *watchMode {
		if *dir == "" {
			fmt.Fprintln(os.Stderr, "-watch requires -dir")
			os.Exit(2)
		}
		runWatch(cfg, *dir, *schedule, service, reporter, logger)
		return
	}

	inputs, cleanup, err := collectInputs(flag.Args(), *dir, urls, logger)
	if err != nil {
		logger.Error("Failed to collect inputs", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to analyze: pass file paths, -dir, or -url")
		os.Exit(2)
	}

	ctx := context.Background()
	results := service.AnalyzeBatch(ctx, inputs, opts)

	printResults(results, *asJSON)

	if reporter != nil {
		path, err := reporter.WriteReport(results)
		if err != nil {
			logger.Error("Failed to write report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "report written to %s\n", path)
	}

	for _, res := range results {
		if res.Success {
			return
		}
	}
	// Every file failed.
	os.Exit(1)
}

// collectInputs gathers analysis inputs from positional file paths, a
// directory, and remote URLs, in that order.
func collectInputs(paths []string, dir string, urls []string, logger *slog.Logger) ([]services.FileInput, func(), error) {
	var inputs []services.FileInput
	var files []*os.File
	cleanup := func() {
		for _, f := range files {
			f.Close()
		}
	}

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, cleanup, fmt.Errorf("reading %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if ext == ".csv" || ext == ".xlsx" {
				paths = append(paths, filepath.Join(dir, entry.Name()))
			}
		}
	}

	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, cleanup, fmt.Errorf("opening %s: %w", p, err)
		}
		files = append(files, f)
		inputs = append(inputs, services.FileInput{Name: filepath.Base(p), Reader: f})
	}

	if len(urls) > 0 {
		client := fetch.NewClient(30*time.Second, logger)
		fetched, err := client.FetchAll(context.Background(), urls)
		if err != nil {
			return nil, cleanup, err
		}
		inputs = append(inputs, fetched...)
	}

	return inputs, cleanup, nil
}

// runWatch runs scheduled sweeps until interrupted
func runWatch(cfg *config.Config, dir, schedule string, service *services.AnalysisService, reporter *exporter.ReportWriter, logger *slog.Logger) {
	if schedule == "" {
		schedule = cfg.Watch.Schedule
	}

	watcher := watch.NewWatcher(dir, service, reporter, logger)
	if err := watcher.Register(schedule); err != nil {
		logger.Error("Failed to register schedule", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// One sweep up front so the first report does not wait for the
	// schedule to fire.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	if err := watcher.Sweep(ctx); err != nil {
		logger.Error("Initial sweep failed", slog.String("error", err.Error()))
	}
	cancel()

	watcher.Start()
	defer watcher.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("Received interrupt signal")
}

// printResults renders results to stdout
func printResults(results []services.FileResult, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(results)
		return
	}

	for _, res := range results {
		if !res.Success {
			fmt.Printf("%-12s FAILED  [%s] %s\n", res.Symbol, res.ErrorKind, res.Error)
			continue
		}
		d := res.Display
		fmt.Printf("%-12s ok  std_dev=%v avg_return=%v volatility=%v sharpe=%v drawdown=%v positive=%v ma=%v %%B=%v rsi=%v large_changes=%v volume_spikes=%v\n",
			res.Symbol,
			d["std_dev"], d["avg_daily_return"], d["annual_volatility"],
			d["sharpe_ratio"], d["max_drawdown"], d["positive_days"],
			d["moving_average"], d["bollinger_pctB"], d["rsi"],
			d["large_changes"], d["volume_spikes"])
	}
}

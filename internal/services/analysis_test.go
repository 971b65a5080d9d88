package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpulse/internal/metrics"
)

type progressEvent struct {
	symbol  string
	current int
	total   int
}

type fileEvent struct {
	symbol    string
	success   bool
	errorKind string
}

type batchEvent struct {
	files    int
	failures int
}

// recordingBroadcaster captures hub callbacks for assertions
type recordingBroadcaster struct {
	mu       sync.Mutex
	progress []progressEvent
	files    []fileEvent
	batches  []batchEvent
}

func (r *recordingBroadcaster) BroadcastProgress(symbol string, current, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, progressEvent{symbol, current, total})
}

func (r *recordingBroadcaster) BroadcastFileResult(symbol string, success bool, errorKind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, fileEvent{symbol, success, errorKind})
}

func (r *recordingBroadcaster) BroadcastBatchComplete(files, failures int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, batchEvent{files, failures})
}

// goodCSV produces 30 trading days with one volume spike
func goodCSV() string {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		price := 100.0 + float64(i%5)
		volume := 100
		if i == 25 {
			volume = 500
		}
		fmt.Fprintf(&b, "2024-01-%02d,%.1f,%.1f,%.1f,%.1f,%d\n",
			i+1, price, price+1, price-1, price, volume)
	}
	return b.String()
}

func newTestService(hub ProgressBroadcaster, workers int) *AnalysisService {
	return NewAnalysisService(nil, hub, nil, Options{}, workers)
}

func TestNewAnalysisServiceDefaults(t *testing.T) {
	svc := NewAnalysisService(nil, nil, nil, Options{}, 0)

	opts := svc.Defaults()
	assert.Equal(t, 365, opts.MaxDays)
	assert.Equal(t, metrics.DefaultParams(), opts.Params)
}

func TestAnalyzeFile(t *testing.T) {
	svc := newTestService(nil, 1)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		in := FileInput{Name: "aapl.csv", Reader: strings.NewReader(goodCSV())}
		res := svc.AnalyzeFile(ctx, in, svc.Defaults())

		require.True(t, res.Success)
		assert.Equal(t, "AAPL", res.Symbol)
		assert.Equal(t, "https://www.wsj.com/market-data/quotes/AAPL", res.ChartLink)
		require.NotNil(t, res.Metrics)
		assert.Equal(t, 1, res.Metrics.VolumeSpikes)
		assert.Equal(t, "AAPL", res.Display["file_name"])
	})

	t.Run("parse failure", func(t *testing.T) {
		in := FileInput{Name: "bad.csv", Reader: strings.NewReader("1,2\n1,2,3,4,5,6\n")}
		res := svc.AnalyzeFile(ctx, in, svc.Defaults())

		require.False(t, res.Success)
		assert.Equal(t, KindParseError, res.ErrorKind)
		assert.Equal(t, "bad.csv", res.Display["file_name"])
		assert.Equal(t, "Error", res.Display["rsi"])
	})

	t.Run("schema failure", func(t *testing.T) {
		in := FileInput{Name: "narrow.csv", Reader: strings.NewReader("2024-01-01,1,2,3\n")}
		res := svc.AnalyzeFile(ctx, in, svc.Defaults())

		require.False(t, res.Success)
		assert.Equal(t, KindSchemaError, res.ErrorKind)
	})

	t.Run("empty data", func(t *testing.T) {
		in := FileInput{Name: "empty.csv", Reader: strings.NewReader("2024-01-01,,,,,100\n")}
		res := svc.AnalyzeFile(ctx, in, svc.Defaults())

		require.False(t, res.Success)
		assert.Equal(t, KindEmptyData, res.ErrorKind)
	})

	t.Run("metric failure", func(t *testing.T) {
		// Parses fine but is too short for the rolling windows.
		in := FileInput{Name: "short.csv", Reader: strings.NewReader(
			"2024-01-01,1,1,1,100,10\n2024-01-02,1,1,1,101,10\n")}
		res := svc.AnalyzeFile(ctx, in, svc.Defaults())

		require.False(t, res.Success)
		assert.Equal(t, KindMetricError, res.ErrorKind)
		assert.Contains(t, res.Error, "moving average")
	})
}

func TestAnalyzeBatch(t *testing.T) {
	hub := &recordingBroadcaster{}
	svc := newTestService(hub, 4)
	ctx := context.Background()

	inputs := []FileInput{
		{Name: "aapl.csv", Reader: strings.NewReader(goodCSV())},
		{Name: "bad.csv", Reader: strings.NewReader("not,a,csv\n1,2\n")},
		{Name: "msft.csv", Reader: strings.NewReader(goodCSV())},
	}

	results := svc.AnalyzeBatch(ctx, inputs, svc.Defaults())

	require.Len(t, results, 3)

	// Results come back in input order despite concurrent workers.
	assert.Equal(t, "AAPL", results[0].Symbol)
	assert.True(t, results[0].Success)
	assert.Equal(t, "BAD", results[1].Symbol)
	assert.False(t, results[1].Success)
	assert.Equal(t, "MSFT", results[2].Symbol)
	assert.True(t, results[2].Success)

	hub.mu.Lock()
	defer hub.mu.Unlock()

	assert.Len(t, hub.progress, 3)
	for _, p := range hub.progress {
		assert.Equal(t, 3, p.total)
	}
	assert.Len(t, hub.files, 3)

	require.Len(t, hub.batches, 1)
	assert.Equal(t, 3, hub.batches[0].files)
	assert.Equal(t, 1, hub.batches[0].failures)
}

func TestAnalyzeBatchEmpty(t *testing.T) {
	hub := &recordingBroadcaster{}
	svc := newTestService(hub, 2)

	results := svc.AnalyzeBatch(context.Background(), nil, svc.Defaults())

	assert.Empty(t, results)
	hub.mu.Lock()
	defer hub.mu.Unlock()
	require.Len(t, hub.batches, 1)
	assert.Equal(t, 0, hub.batches[0].files)
}

func TestAnalyzeBatchCancelled(t *testing.T) {
	svc := newTestService(nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := []FileInput{
		{Name: "aapl.csv", Reader: strings.NewReader(goodCSV())},
	}

	results := svc.AnalyzeBatch(ctx, inputs, svc.Defaults())

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
}

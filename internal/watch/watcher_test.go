package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpulse/internal/metrics"
	"stockpulse/internal/services"
)

type fakeAnalyzer struct {
	gotNames []string
	contents []string
}

func (f *fakeAnalyzer) Defaults() services.Options {
	return services.Options{MaxDays: 365, Params: metrics.DefaultParams()}
}

func (f *fakeAnalyzer) AnalyzeBatch(_ context.Context, inputs []services.FileInput, _ services.Options) []services.FileResult {
	out := make([]services.FileResult, len(inputs))
	for i, in := range inputs {
		f.gotNames = append(f.gotNames, in.Name)
		data, _ := io.ReadAll(in.Reader)
		f.contents = append(f.contents, string(data))
		out[i] = services.FileResult{Symbol: in.Name, Success: true}
	}
	return out
}

type fakeReporter struct {
	calls int
	got   int
}

func (f *fakeReporter) WriteReport(results []services.FileResult) (string, error) {
	f.calls++
	f.got = len(results)
	return "reports/sweep.csv", nil
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "2024-01-01,1,1,1,100,10\n")
	writeFile(t, dir, "a.csv", "2024-01-01,1,1,1,200,20\n")
	writeFile(t, dir, "notes.txt", "ignore me")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	svc := &fakeAnalyzer{}
	rep := &fakeReporter{}
	w := NewWatcher(dir, svc, rep, nil)

	require.NoError(t, w.Sweep(context.Background()))

	// Only price files, in name order.
	assert.Equal(t, []string{"a.csv", "b.csv"}, svc.gotNames)
	assert.Contains(t, svc.contents[0], "200")
	assert.Equal(t, 1, rep.calls)
	assert.Equal(t, 2, rep.got)
}

func TestSweepEmptyDir(t *testing.T) {
	svc := &fakeAnalyzer{}
	rep := &fakeReporter{}
	w := NewWatcher(t.TempDir(), svc, rep, nil)

	require.NoError(t, w.Sweep(context.Background()))
	assert.Empty(t, svc.gotNames)
	assert.Zero(t, rep.calls)
}

func TestSweepMissingDir(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "absent"), &fakeAnalyzer{}, nil, nil)
	assert.Error(t, w.Sweep(context.Background()))
}

func TestRegister(t *testing.T) {
	w := NewWatcher(t.TempDir(), &fakeAnalyzer{}, nil, nil)

	assert.NoError(t, w.Register("@hourly"))
	assert.Error(t, w.Register("not a schedule"))
}

func TestStartStop(t *testing.T) {
	w := NewWatcher(t.TempDir(), &fakeAnalyzer{}, nil, nil)
	require.NoError(t, w.Register("@every 1h"))

	w.Start()
	w.Stop()
}

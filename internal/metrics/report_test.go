package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureSeries builds a 30-day series with mild oscillation and one
// volume spike, long enough for every default window.
func fixtureSeries() (prices, volumes []float64) {
	prices = make([]float64, 30)
	volumes = make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i%5)
		volumes[i] = 100
	}
	volumes[25] = 500
	return prices, volumes
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	assert.True(t, p.IsValid())
	assert.Equal(t, 10.0, p.LargeChangeDeltaPct)
	assert.Equal(t, 2.0, p.VolumeSpikeThreshold)
	assert.Equal(t, 20, p.MAWindow)
	assert.Equal(t, 20, p.BollingerWindow)
	assert.Equal(t, 2.0, p.BollingerNStd)
	assert.Equal(t, 14, p.RSIWindow)

	assert.False(t, Params{}.IsValid())
}

func TestCompute(t *testing.T) {
	t.Run("full battery", func(t *testing.T) {
		prices, volumes := fixtureSeries()

		rep, err := Compute(prices, volumes, DefaultParams())
		require.NoError(t, err)

		assert.Equal(t, 0, rep.LargeChanges)
		assert.Equal(t, 1, rep.VolumeSpikes)

		wantMA, err := MovingAverage(prices, DefaultMAWindow)
		require.NoError(t, err)
		assert.InDelta(t, wantMA, rep.MovingAverage, 1e-9)

		assert.GreaterOrEqual(t, rep.RSI, 0.0)
		assert.LessOrEqual(t, rep.RSI, 100.0)
		assert.False(t, math.IsNaN(rep.StdDevPct))
		assert.False(t, math.IsNaN(rep.SharpeRatio))
		assert.GreaterOrEqual(t, rep.MaxDrawdownPct, 0.0)
	})

	t.Run("deterministic", func(t *testing.T) {
		prices, volumes := fixtureSeries()

		first, err := Compute(prices, volumes, DefaultParams())
		require.NoError(t, err)
		second, err := Compute(prices, volumes, DefaultParams())
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("short series aborts at first window failure", func(t *testing.T) {
		_, err := Compute([]float64{100, 101, 102, 103, 104}, []float64{1, 1, 1, 1, 1}, DefaultParams())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrShortWindow)
		assert.Contains(t, err.Error(), "moving average")
	})

	t.Run("single price", func(t *testing.T) {
		_, err := Compute([]float64{100}, []float64{1}, DefaultParams())
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("empty prices", func(t *testing.T) {
		_, err := Compute(nil, []float64{1}, DefaultParams())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptySeries)
		assert.Contains(t, err.Error(), "standard deviation")
	})

	t.Run("empty volumes", func(t *testing.T) {
		prices, _ := fixtureSeries()

		_, err := Compute(prices, nil, DefaultParams())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptySeries)
		assert.Contains(t, err.Error(), "volume spikes")
	})
}

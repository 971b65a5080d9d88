package series

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildCSV renders rows of Date,Open,High,Low,Close,Volume. Close and
// Volume cells are taken verbatim so tests can inject blanks and garbage.
func buildCSV(cells [][2]string) string {
	var b strings.Builder
	for i, c := range cells {
		fmt.Fprintf(&b, "2024-01-%02d,10,12,9,%s,%s\n", i%28+1, c[0], c[1])
	}
	return b.String()
}

func TestLoad(t *testing.T) {
	t.Run("basic parse", func(t *testing.T) {
		input := buildCSV([][2]string{
			{"100", "1000"},
			{"110", "2000"},
			{"90", "1500"},
		})

		prices, volumes, err := Load(strings.NewReader(input), DefaultMaxDays)
		require.NoError(t, err)

		assert.Equal(t, PriceSeries{100, 110, 90}, prices)
		assert.Equal(t, VolumeSeries{1000, 2000, 1500}, volumes)
		assert.Equal(t, 90.0, prices.Last())
	})

	t.Run("first row is data not header", func(t *testing.T) {
		input := buildCSV([][2]string{{"50", "10"}})

		prices, volumes, err := Load(strings.NewReader(input), DefaultMaxDays)
		require.NoError(t, err)

		assert.Len(t, prices, 1)
		assert.Len(t, volumes, 1)
	})

	t.Run("keeps trailing window", func(t *testing.T) {
		cells := make([][2]string, 500)
		for i := range cells {
			cells[i] = [2]string{fmt.Sprintf("%d", i+1), "100"}
		}

		prices, volumes, err := Load(strings.NewReader(buildCSV(cells)), 365)
		require.NoError(t, err)

		require.Len(t, prices, 365)
		require.Len(t, volumes, 365)
		// Tail of the input, order preserved.
		assert.Equal(t, 136.0, prices[0])
		assert.Equal(t, 500.0, prices[364])
	})

	t.Run("short input kept whole", func(t *testing.T) {
		input := buildCSV([][2]string{{"1", "1"}, {"2", "2"}})

		prices, _, err := Load(strings.NewReader(input), 365)
		require.NoError(t, err)
		assert.Len(t, prices, 2)
	})

	t.Run("independent null filters", func(t *testing.T) {
		input := buildCSV([][2]string{
			{"100", ""},
			{"", "2000"},
			{"90", "bogus"},
			{"95", "1500"},
		})

		prices, volumes, err := Load(strings.NewReader(input), DefaultMaxDays)
		require.NoError(t, err)

		// Close and Volume are cleaned separately; lengths diverge.
		assert.Equal(t, PriceSeries{100, 90, 95}, prices)
		assert.Equal(t, VolumeSeries{2000, 1500}, volumes)
	})

	t.Run("nan cells dropped", func(t *testing.T) {
		input := buildCSV([][2]string{
			{"NaN", "100"},
			{"50", "NaN"},
		})

		prices, volumes, err := Load(strings.NewReader(input), DefaultMaxDays)
		require.NoError(t, err)

		assert.Equal(t, PriceSeries{50}, prices)
		assert.Equal(t, VolumeSeries{100}, volumes)
	})

	t.Run("missing columns", func(t *testing.T) {
		input := "2024-01-01,10,12,9\n2024-01-02,11,13,10\n"

		_, _, err := Load(strings.NewReader(input), DefaultMaxDays)
		assert.ErrorIs(t, err, ErrSchema)
	})

	t.Run("close entirely missing", func(t *testing.T) {
		input := buildCSV([][2]string{
			{"", "1000"},
			{"", "2000"},
		})

		_, _, err := Load(strings.NewReader(input), DefaultMaxDays)
		assert.ErrorIs(t, err, ErrEmptyData)
	})

	t.Run("ragged rows fail parse", func(t *testing.T) {
		input := "2024-01-01,10,12,9,100,1000\n2024-01-02,11,13\n"

		_, _, err := Load(strings.NewReader(input), DefaultMaxDays)
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("unbalanced quotes fail parse", func(t *testing.T) {
		input := "2024-01-01,10,12,9,\"100,1000\n"

		_, _, err := Load(strings.NewReader(input), DefaultMaxDays)
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("non-positive max days rejected", func(t *testing.T) {
		input := buildCSV([][2]string{{"100", "1000"}})

		_, _, err := Load(strings.NewReader(input), 0)
		assert.Error(t, err)
	})
}

func TestLoadDeterministic(t *testing.T) {
	input := buildCSV([][2]string{
		{"100", "1000"},
		{"110", "2000"},
		{"90", "1500"},
		{"", "700"},
		{"95", ""},
	})

	p1, v1, err := Load(strings.NewReader(input), DefaultMaxDays)
	require.NoError(t, err)
	p2, v2, err := Load(strings.NewReader(input), DefaultMaxDays)
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, v1, v2)
}

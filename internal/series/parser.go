package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Load reads delimited OHLCV rows from r and returns the cleaned Close and
// Volume sequences, each truncated to its trailing maxDays entries.
//
// The first row of input is treated as the first data row. Ragged rows and
// any other reader failure surface as ErrParse with the parser's message
// attached. A table narrower than six columns surfaces as ErrSchema. An
// empty price sequence after cleaning surfaces as ErrEmptyData; an empty
// volume sequence is not checked here and fails downstream in the metrics
// engine instead.
func Load(r io.Reader, maxDays int) (PriceSeries, VolumeSeries, error) {
	if maxDays <= 0 {
		return nil, nil, fmt.Errorf("series: max days must be positive, got %d", maxDays)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return fromRows(rows, maxDays)
}

// fromRows applies the shared clean/truncate path to an already-tokenized
// table. Shared between the CSV and workbook loaders.
func fromRows(rows [][]string, maxDays int) (PriceSeries, VolumeSeries, error) {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width < columnCount {
		return nil, nil, fmt.Errorf("%w: got %d columns", ErrSchema, width)
	}

	// Two independent null-filters: a row can contribute to one sequence
	// and not the other.
	prices := cleanColumn(rows, closeColumn)
	volumes := cleanColumn(rows, volumeColumn)

	prices = tail(prices, maxDays)
	volumes = tail(volumes, maxDays)

	if len(prices) == 0 {
		return nil, nil, ErrEmptyData
	}

	return PriceSeries(prices), VolumeSeries(volumes), nil
}

// cleanColumn extracts one column as float64, dropping cells that are
// absent, blank, or do not parse to a finite number.
func cleanColumn(rows [][]string, col int) []float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values = append(values, v)
	}
	return values
}

// tail keeps the last n entries, preserving order.
func tail(values []float64, n int) []float64 {
	if len(values) > n {
		return values[len(values)-n:]
	}
	return values
}

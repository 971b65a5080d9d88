package exporter

import (
	"math"
	"strconv"
)

// formatFloat renders a metric value for CSV output. Non-finite values
// are spelled out so spreadsheet imports do not silently coerce them.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	default:
		return strconv.FormatFloat(f, 'f', 6, 64)
	}
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

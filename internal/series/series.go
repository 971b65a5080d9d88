package series

import "errors"

// Positional layout of the expected input table. Names are assigned to
// columns by position; no header row is consumed.
const (
	columnCount  = 6
	closeColumn  = 4
	volumeColumn = 5
)

// DefaultMaxDays bounds a loaded sequence to roughly one trading year plus
// weekends and holidays.
const DefaultMaxDays = 365

// Sentinel errors returned by Load and LoadWorkbook. Callers distinguish
// failure kinds with errors.Is.
var (
	// ErrParse reports that the underlying tabular parse failed.
	ErrParse = errors.New("series: unreadable tabular input")
	// ErrSchema reports that the table has no Close or Volume column.
	ErrSchema = errors.New("series: input must contain Close and Volume columns")
	// ErrEmptyData reports that no usable closing prices survived cleaning.
	ErrEmptyData = errors.New("series: no valid closing price data found")
)

// PriceSeries is an ordered sequence of non-missing closing prices,
// chronological order preserved, at most maxDays entries. Immutable after
// construction; owned by a single processing request.
type PriceSeries []float64

// VolumeSeries is an ordered sequence of non-missing volumes, cleaned and
// truncated independently of the price sequence. Its length may differ from
// the PriceSeries built from the same table when missingness differs between
// the two columns.
type VolumeSeries []float64

// Last returns the most recent price. Callers must ensure the series is
// non-empty; Load never returns an empty PriceSeries.
func (p PriceSeries) Last() float64 {
	return p[len(p)-1]
}

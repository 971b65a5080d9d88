// Package series turns raw tabular OHLCV uploads into clean numeric sequences.
//
// Input is delimited tabular data with the fixed positional column order
// Date, Open, High, Low, Close, Volume. The first row is data, not a header.
// Load extracts the Close and Volume columns, drops missing or unparseable
// cells independently per column, truncates each sequence to its trailing
// maxDays entries, and returns them as float64 slices ready for the metrics
// engine. LoadWorkbook does the same for Excel workbooks, reading the first
// sheet through excelize.
//
// Failures are reported through three sentinel errors, matched with
// errors.Is:
//
//   - ErrParse: the underlying tabular parse failed (malformed delimiters,
//     ragged rows, unreadable stream). The original parser message is
//     attached.
//   - ErrSchema: the table is narrower than six columns, so the Close and
//     Volume positions do not exist.
//   - ErrEmptyData: the cleaned, truncated Close sequence is empty.
//
// The Close and Volume filters are deliberately independent: a row whose
// Close parses but whose Volume does not contributes to the price sequence
// only, so the two sequences may end up with different lengths.
package series

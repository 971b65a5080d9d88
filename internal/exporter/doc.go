// Package exporter writes analysis results to CSV report files.
//
// CSVWriter is the core writer: headers, append mode, streaming, and
// an optional UTF-8 BOM so Excel opens the files correctly.
// ReportWriter sits on top and renders one row per analyzed file into
// a timestamped report under the configured directory.
package exporter

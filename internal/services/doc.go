// Package services contains the business logic layer between HTTP
// transport and the series/metrics core.
//
// AnalysisService orchestrates per-file analysis: it parses the upload,
// runs the metric battery, derives the display record, and reports
// progress over the websocket hub. Files in a batch are processed
// concurrently and independently; one bad file never fails the batch,
// and results come back in upload order.
package services

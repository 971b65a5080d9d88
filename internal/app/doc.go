// Package app wires the service together: configuration, logging,
// OpenTelemetry, the websocket hub, the analysis service, and the
// HTTP router, plus server lifecycle with graceful shutdown.
package app

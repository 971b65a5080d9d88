// Package http implements the HTTP handlers for the analysis web
// service. Handlers stay thin: they parse and validate requests,
// delegate to the service layer, and render JSON responses. Errors
// surface as RFC 7807 problem details through the shared error
// handler.
package http

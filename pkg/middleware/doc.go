// Package middleware provides optional relay middleware: request logging,
// panic recovery, error coercion, CORS, rate limiting, multipart form
// parsing, Prometheus metrics, and OpenTelemetry tracing.
//
// Everything here is ordinary relay.Handler middleware; mount what you
// need with app.Use. Recommended outermost-first order: Recover, Logger,
// Metrics, OpenTelemetry, Errors, then routing.
package middleware

// Package logging assembles structured slog loggers and formatting helpers used
// across creatorpay.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so report runs and HTTP requests
// automatically tag log lines with run IDs, request IDs, creators and model
// names. The package also provides a no-op logger for tests and wiring code
// that cannot fail.
package logging

// Package logging assembles structured slog loggers and formatting helpers used
// across subberthehut.
//
// It owns the console and JSON handlers, maps the CLI quiet level onto slog
// thresholds, and exposes context-aware helpers so pipeline code can tag log
// lines with the file being processed, its stage, and the run correlation id.
// The package also provides a no-op logger for tests and wiring code.
package logging

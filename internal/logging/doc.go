// Package logging builds the slog loggers used across the caption studio:
// a console handler with terminal-aware colorization, a JSON handler for
// machine-readable output, and helpers for component and context fields.
package logging

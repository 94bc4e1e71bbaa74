// Package logging configures the process-wide slog default and hands out
// component-scoped loggers.
package logging

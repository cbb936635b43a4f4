// Package logging assembles structured slog loggers used across aqmsnotify.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and carries the per-run correlation identifier on the context so
// every line of a notification run can be grepped together. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging

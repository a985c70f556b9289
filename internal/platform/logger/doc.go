// Package logger provides structured logging for the application.
//
// It builds on log/slog with a JSON handler and carries request-scoped
// loggers through context.Context so that every line written while serving a
// request includes its trace ID.
package logger

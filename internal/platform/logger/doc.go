// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels. Request-scoped loggers and trace IDs travel in the
// context.Context, and the ContextHandler stamps the trace ID onto every record logged
// with such a context, including records written from goroutines that outlive the request.
package logger

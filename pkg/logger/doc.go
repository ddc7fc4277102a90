// Package logger builds slog loggers for the application.
//
// Loggers write JSON to stdout by default. ContextExtractors attach
// request-scoped attributes (request ID, route ID) to every record logged
// with a context. When a Sentry DSN is configured, warnings and errors are
// forwarded to Sentry as well.
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithExtractors(middlewares.RequestIDExtractor()),
//	)
package logger

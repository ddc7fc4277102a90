// Package middlewares provides request middlewares for routekit apps.
//
// # Request ID
//
// RequestID assigns a UUID to each request unless an upstream header
// already carries one. Pair it with RequestIDExtractor so every log record
// gets request_id:
//
//	log := logger.New(logger.WithExtractors(middlewares.RequestIDExtractor()))
//	app := routekit.New(
//	    routekit.WithLogger(log),
//	    routekit.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover converts panics into *PanicError, which the app's ErrorHandler
// renders as 500.
//
// # Logger
//
// Logger writes one record per request with method, path, status, size
// and duration.
//
// # Recommended Order
//
//	routekit.WithMiddleware(
//	    middlewares.RequestID(),
//	    middlewares.Recover(),
//	    middlewares.Logger(),
//	)
package middlewares

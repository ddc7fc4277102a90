package internal

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/routekit/pkg/logger"
)

type routeIDKey struct{}

func withRouteID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, routeIDKey{}, id)
}

// RouteIDFromContext returns the leaf route ID of the navigation being served.
func RouteIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(routeIDKey{}).(string)
	return id, ok && id != ""
}

// RouteIDExtractor adds route_id to log records emitted during a navigation.
func RouteIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := RouteIDFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.String("route_id", id), true
	}
}

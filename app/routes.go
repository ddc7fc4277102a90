package app

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/routekit"
	"github.com/dmitrymomot/routekit/app/views"
	"github.com/dmitrymomot/routekit/pkg/markdown"
)

// Route IDs of the demo tree.
const (
	IndexRouteID     = "/"
	TestRouteID      = "/test"
	TestIndexRouteID = "/test/"
)

// Routes builds the route tree: root layout, home, and /test whose index
// validates its search and echoes it through the loader.
func Routes(log *slog.Logger, docs *markdown.Library) *routekit.Route {
	root := routekit.NewRootRoute(routekit.View(views.Layout))

	welcome, err := docs.Get("welcome.md")
	if err != nil {
		log.Warn("welcome content unavailable", slog.String("error", err.Error()))
	}
	index := routekit.NewIndexRoute(root, routekit.View(views.Home(welcome)))

	test := routekit.NewRoute(root, "test")
	testIndex := routekit.NewIndexRoute(test,
		routekit.ValidateSearch(TestSearch.Parse),
		routekit.PreSearchFilters(PreSetFilter),
		routekit.Loader(echoLoader(log)),
		routekit.View(views.TestPage(TestIndexRouteID)),
	)

	return root.AddChildren(index, test.AddChildren(testIndex))
}

// echoLoader returns the validated search unchanged.
func echoLoader(log *slog.Logger) routekit.LoaderFunc {
	return func(ctx context.Context, args routekit.LoaderArgs) (any, error) {
		log.InfoContext(ctx, "loader ctx.search", slog.Any("search", args.Search))
		return args.Search, nil
	}
}

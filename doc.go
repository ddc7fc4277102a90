// Package routekit is a server-rendered router with typed, validated search
// params, per-route loaders and nested layouts.
//
// # Quick Start
//
// Declare a route tree, then serve it:
//
//	root := routekit.NewRootRoute(routekit.View(views.Layout))
//	root.AddChildren(routekit.NewIndexRoute(root, routekit.View(views.Home)))
//
//	app := routekit.New(
//	    routekit.WithRoutes(root),
//	    routekit.WithSession(session.NewMemoryStore()),
//	)
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Search Params
//
// A route may validate its search with a validator.Schema and normalize it
// with pre-search filters. Navigating computes
//
//	next = filters(merge(current, update(current)))
//
// and validates next root first. Invalid searches answer 400 and never reach
// loaders.
//
// # Loaders and Views
//
// Loaders run after validation and may be cached with WithLoaderCache.
// Views receive the Context and the rendered child as outlet, so layouts
// wrap pages. Components are templ.Component compatible.
//
// # Handlers
//
// Plain endpoints implement [Handler]:
//
//	func (h *AuthHandler) Routes(r routekit.Router) {
//	    r.POST("/auth/login", h.login)
//	}
package routekit

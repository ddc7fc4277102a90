// Package internal implements the routekit runtime. Import
// "github.com/dmitrymomot/routekit" instead, which re-exports the public API.
//
// # Route Tree
//
// Pages are declared as a tree of routes under a root route. Each route may
// carry a search validator, pre-search filters, a loader and a view:
//
//	root := internal.NewRootRoute(internal.View(layout))
//	test := internal.NewRoute(root, "test",
//	    internal.ValidateSearch(schema.Parse),
//	    internal.PreSearchFilters(search.Force("preSet", "preSearchFilters")),
//	)
//	test.AddChildren(internal.NewIndexRoute(test,
//	    internal.Loader(loadTest),
//	    internal.View(testPage),
//	))
//	root.AddChildren(internal.NewIndexRoute(root, internal.View(home)), test)
//
// # Navigation
//
// A navigation resolves a target path against the tree, then computes the
// next search as filters(merge(current, update(current))). Validators run
// root first on the result; the first failure aborts with a NavigationError
// that renders as 400. Loaders run after validation, root first, and their
// results are available to views through Context.LoaderData.
//
// Views compose leaf first: each parent receives its child's component as
// the outlet. HTMX requests targeting the outlet element skip the root
// layout.
//
// # Sessions and Auth
//
// With WithSession configured, the session holds the auth state and the
// navigation history. Login rotates the session token.
//
// # Server Runtime
//
//	err := app.Run(":8080",
//	    internal.Logger(log),
//	    internal.ShutdownHook(redis.Shutdown(client)),
//	)
package internal

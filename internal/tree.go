package internal

import (
	"fmt"
	"slices"
)

// RouteTree indexes a route tree by ID and by URL path.
type RouteTree struct {
	root   *Route
	byID   map[string]*Route
	byPath map[string]*Route
}

// NewRouteTree indexes root. It fails on duplicate IDs.
//
// Every index route is served at its own path and at its parent's path,
// so a parent path such as /test renders its index child /test/.
// Leaves with a component are served at their path.
func NewRouteTree(root *Route) (*RouteTree, error) {
	t := &RouteTree{
		root:   root,
		byID:   map[string]*Route{},
		byPath: map[string]*Route{},
	}

	var dup error
	root.Walk(func(r *Route) {
		if _, ok := t.byID[r.ID()]; ok && dup == nil {
			dup = fmt.Errorf("%w: %s", ErrDuplicateRoute, r.ID())
		}
		t.byID[r.ID()] = r
	})
	if dup != nil {
		return nil, dup
	}

	root.Walk(func(r *Route) {
		switch {
		case r.IsIndex():
			t.byPath[r.Path()] = r
			if p := r.Parent(); !p.IsRoot() {
				t.byPath[p.Path()] = r
			}
		case !r.IsRoot() && len(r.Children()) == 0 && r.HasComponent():
			t.byPath[r.Path()] = r
		}
	})
	return t, nil
}

// Root returns the root route.
func (t *RouteTree) Root() *Route { return t.root }

// Route returns the route with the given ID.
func (t *RouteTree) Route(id string) (*Route, bool) {
	r, ok := t.byID[id]
	return r, ok
}

// Lookup returns the leaf route rendered at path.
func (t *RouteTree) Lookup(path string) (*Route, bool) {
	if path == "" {
		path = "/"
	}
	r, ok := t.byPath[path]
	return r, ok
}

// Paths returns every servable path in sorted order.
func (t *RouteTree) Paths() []string {
	paths := make([]string, 0, len(t.byPath))
	for p := range t.byPath {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Routes returns every route in depth-first order.
func (t *RouteTree) Routes() []*Route {
	var out []*Route
	t.root.Walk(func(r *Route) { out = append(out, r) })
	return out
}

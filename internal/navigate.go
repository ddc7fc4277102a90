package internal

import (
	"fmt"

	"github.com/dmitrymomot/routekit/pkg/search"
)

// Location is a path plus its validated search.
type Location struct {
	Path   string
	Search search.Params
}

// Href renders the location as path?query with sorted, dotted keys.
func (l Location) Href() string {
	path := l.Path
	if path == "" {
		path = "/"
	}
	if q := l.Search.Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// Match is the outcome of resolving a navigation.
type Match struct {
	Location Location
	// Routes is the matched chain, root first.
	Routes []*Route
	// Search holds each route's validated search by route ID.
	Search map[string]search.Params
	// LoaderData holds loader results by route ID. Empty until loaders run.
	LoaderData map[string]any
}

// Leaf returns the deepest matched route.
func (m *Match) Leaf() *Route {
	if m == nil || len(m.Routes) == 0 {
		return nil
	}
	return m.Routes[len(m.Routes)-1]
}

// Resolve runs the search pipeline for a navigation from current to path:
//
//	next = filters(merge(current.Search, update(current.Search)))
//
// then every validator on the chain, root first. Filters run ancestors
// first and see the merged search, so they may overwrite caller values.
// Each validator's output replaces the search seen by the routes below it.
// A validator failure aborts with *NavigationError.
func (t *RouteTree) Resolve(current Location, path string, update search.Updater) (*Match, error) {
	leaf, ok := t.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
	}
	chain := leaf.Chain()

	next := search.Apply(current.Search, update)
	for _, r := range chain {
		next = search.ApplyFilters(next, r.filters...)
	}

	loc := Location{Path: path, Search: next}
	perRoute := make(map[string]search.Params, len(chain))
	for _, r := range chain {
		if r.validate != nil {
			validated, err := r.validate(next.Clone())
			if err != nil {
				return nil, &NavigationError{RouteID: r.ID(), Location: loc, Err: err}
			}
			next = validated
		}
		perRoute[r.ID()] = next.Clone()
	}

	loc.Search = next
	return &Match{
		Location:   loc,
		Routes:     chain,
		Search:     perRoute,
		LoaderData: map[string]any{},
	}, nil
}

// BuildLocation resolves a navigation and returns only its location.
func (t *RouteTree) BuildLocation(current Location, path string, update search.Updater) (Location, error) {
	m, err := t.Resolve(current, path, update)
	if err != nil {
		return Location{}, err
	}
	return m.Location, nil
}

package internal

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrymomot/routekit/pkg/auth"
	"github.com/dmitrymomot/routekit/pkg/search"
)

// RootRouteID identifies the root of every route tree.
const RootRouteID = "__root__"

// Component renders HTML. templ.Component satisfies it.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// ComponentFunc builds a route's view. outlet is the rendered child chain,
// nil for a leaf.
type ComponentFunc func(c Context, outlet Component) Component

// SearchValidator validates and normalizes a route's search.
// It returns the normalized search or an error, usually validator.ValidationErrors.
type SearchValidator func(search.Params) (search.Params, error)

// LoaderArgs is what a loader sees.
type LoaderArgs struct {
	RouteID string
	Search  search.Params
	Params  map[string]string
	Auth    auth.State
}

// LoaderFunc fetches route data after the search validates.
type LoaderFunc func(ctx context.Context, args LoaderArgs) (any, error)

// RouteOption configures a Route.
type RouteOption func(*Route)

// ValidateSearch sets the route's search validator.
func ValidateSearch(v SearchValidator) RouteOption {
	return func(r *Route) { r.validate = v }
}

// PreSearchFilters appends filters run on the merged search before validation.
func PreSearchFilters(filters ...search.Filter) RouteOption {
	return func(r *Route) { r.filters = append(r.filters, filters...) }
}

// Loader sets the route's loader.
func Loader(fn LoaderFunc) RouteOption {
	return func(r *Route) { r.loader = fn }
}

// View sets the route's component.
func View(fn ComponentFunc) RouteOption {
	return func(r *Route) { r.component = fn }
}

// Route is a node of the route tree. Routes are declared once at startup
// and composed with AddChildren; they are read-only while serving.
type Route struct {
	id        string
	segment   string
	parent    *Route
	children  []*Route
	validate  SearchValidator
	filters   []search.Filter
	loader    LoaderFunc
	component ComponentFunc
}

// NewRootRoute creates the root route. Its component is the layout of every page.
func NewRootRoute(opts ...RouteOption) *Route {
	r := &Route{id: RootRouteID}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRoute creates a child of parent at path, relative to parent.
// Path "/" declares parent's index route.
func NewRoute(parent *Route, path string, opts ...RouteOption) *Route {
	if parent == nil {
		panic("routekit: NewRoute requires a parent")
	}
	segment := strings.Trim(path, "/")
	r := &Route{parent: parent, segment: segment}
	switch {
	case segment == "":
		r.id = parent.Path() + "/"
	case parent.IsRoot():
		r.id = "/" + segment
	default:
		r.id = parent.Path() + "/" + segment
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewIndexRoute is NewRoute(parent, "/", opts...).
func NewIndexRoute(parent *Route, opts ...RouteOption) *Route {
	return NewRoute(parent, "/", opts...)
}

// AddChildren attaches children declared with r as parent and returns r.
func (r *Route) AddChildren(children ...*Route) *Route {
	for _, ch := range children {
		if ch.parent != r {
			panic(fmt.Sprintf("routekit: route %s is not a child of %s", ch.id, r.id))
		}
		r.children = append(r.children, ch)
	}
	return r
}

// ID is the route's unique identifier: RootRouteID or its full path.
func (r *Route) ID() string { return r.id }

// Path is the full URL path of the route. The root has an empty path.
func (r *Route) Path() string {
	if r.IsRoot() {
		return ""
	}
	return r.id
}

func (r *Route) IsRoot() bool { return r.parent == nil }

// IsIndex reports whether r is its parent's index route.
func (r *Route) IsIndex() bool { return r.parent != nil && r.segment == "" }

func (r *Route) Parent() *Route { return r.parent }

func (r *Route) Children() []*Route { return r.children }

func (r *Route) HasComponent() bool { return r.component != nil }

func (r *Route) HasLoader() bool { return r.loader != nil }

func (r *Route) HasValidator() bool { return r.validate != nil }

// Index returns r's index child, if any.
func (r *Route) Index() *Route {
	for _, ch := range r.children {
		if ch.IsIndex() {
			return ch
		}
	}
	return nil
}

// Chain returns the routes from the root down to r.
func (r *Route) Chain() []*Route {
	var chain []*Route
	for n := r; n != nil; n = n.parent {
		chain = append(chain, n)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Walk visits r and its descendants depth first.
func (r *Route) Walk(fn func(*Route)) {
	fn(r)
	for _, ch := range r.children {
		ch.Walk(fn)
	}
}

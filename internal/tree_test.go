package internal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/pkg/search"
	"github.com/dmitrymomot/routekit/pkg/validator"
)

var testSchema = validator.NewSchema(
	validator.String("foo"),
	validator.String("hello", validator.Optional()),
	validator.String("name", validator.Default("Sean")),
	validator.String("preSet"),
	validator.Object("filters", validator.NewSchema(
		validator.String("nested", validator.Optional()),
	), validator.Optional()),
)

func newTestTree(t *testing.T) *RouteTree {
	t.Helper()
	root := NewRootRoute()
	testRoute := NewRoute(root, "test",
		ValidateSearch(testSchema.Parse),
		PreSearchFilters(search.Force("preSet", "preSearchFilters")),
	)
	testRoute.AddChildren(NewIndexRoute(testRoute))
	root.AddChildren(NewIndexRoute(root), testRoute)

	tree, err := NewRouteTree(root)
	require.NoError(t, err)
	return tree
}

func TestRouteIDs(t *testing.T) {
	t.Parallel()

	tree := newTestTree(t)
	var ids []string
	for _, r := range tree.Routes() {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []string{RootRouteID, "/", "/test", "/test/"}, ids)
	assert.Equal(t, []string{"/", "/test", "/test/"}, tree.Paths())

	leaf, ok := tree.Lookup("/test")
	require.True(t, ok)
	assert.Equal(t, "/test/", leaf.ID())

	_, ok = tree.Lookup("/missing")
	assert.False(t, ok)
}

func TestRouteTreeRejectsDuplicates(t *testing.T) {
	t.Parallel()

	root := NewRootRoute()
	root.AddChildren(NewRoute(root, "a"), NewRoute(root, "/a/"))
	_, err := NewRouteTree(root)
	require.ErrorIs(t, err, ErrDuplicateRoute)
}

func TestAddChildrenPanicsOnForeignRoute(t *testing.T) {
	t.Parallel()

	a := NewRootRoute()
	b := NewRootRoute()
	assert.Panics(t, func() { a.AddChildren(NewRoute(b, "x")) })
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tree := newTestTree(t)

	t.Run("filters and defaults", func(t *testing.T) {
		t.Parallel()

		m, err := tree.Resolve(Location{}, "/test/", search.Set(search.Params{
			"foo":    "bar",
			"preSet": "caller",
		}))
		require.NoError(t, err)

		want := search.Params{"foo": "bar", "name": "Sean", "preSet": "preSearchFilters"}
		if diff := cmp.Diff(want, m.Location.Search); diff != "" {
			t.Errorf("search mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, "/test/", m.Leaf().ID())
		assert.Equal(t, "/test/?foo=bar&name=Sean&preSet=preSearchFilters", m.Location.Href())
		assert.Equal(t, search.Params{"foo": "bar", "preSet": "preSearchFilters"}, m.Search[RootRouteID])
		assert.Equal(t, want, m.Search["/test/"])
	})

	t.Run("missing foo fails at the test route", func(t *testing.T) {
		t.Parallel()

		_, err := tree.Resolve(Location{}, "/test/", search.Keep())
		ne := AsNavigationError(err)
		require.NotNil(t, ne)
		assert.Equal(t, "/test", ne.RouteID)
		assert.True(t, ne.ValidationErrors().Has("foo"))
		assert.False(t, ne.ValidationErrors().Has("preSet"))
	})

	t.Run("update merges over current", func(t *testing.T) {
		t.Parallel()

		current := Location{Path: "/test/", Search: search.Params{"foo": "bar", "hello": "world"}}
		m, err := tree.Resolve(current, "/test/", func(p search.Params) search.Params {
			return search.Params{"hello": p["hello"].(string) + "!"}
		})
		require.NoError(t, err)
		assert.Equal(t, "world!", m.Location.Search["hello"])
		assert.Equal(t, "bar", m.Location.Search["foo"])
	})

	t.Run("nested filters", func(t *testing.T) {
		t.Parallel()

		m, err := tree.Resolve(Location{}, "/test", search.Set(search.Params{
			"foo":     "bar",
			"filters": search.Params{"nested": "value"},
		}))
		require.NoError(t, err)
		assert.Equal(t, "/test/", m.Leaf().ID())
		assert.Contains(t, m.Location.Href(), "filters.nested=value")
	})

	t.Run("wrong type", func(t *testing.T) {
		t.Parallel()

		_, err := tree.Resolve(Location{}, "/test/", search.Set(search.Params{
			"foo":     "bar",
			"filters": "flat",
		}))
		ne := AsNavigationError(err)
		require.NotNil(t, ne)
		assert.True(t, ne.ValidationErrors().Has("filters"))
	})

	t.Run("unknown path", func(t *testing.T) {
		t.Parallel()

		_, err := tree.Resolve(Location{}, "/nope", search.Keep())
		require.ErrorIs(t, err, ErrRouteNotFound)
	})

	t.Run("index without validators", func(t *testing.T) {
		t.Parallel()

		loc, err := tree.BuildLocation(Location{}, "/", search.Set(search.Params{"x": "1"}))
		require.NoError(t, err)
		assert.Equal(t, "/?x=1", loc.Href())
	})
}

func TestResolveUsesValidatorOutput(t *testing.T) {
	t.Parallel()

	strip := func(p search.Params) (search.Params, error) {
		out := search.Params{}
		if v, ok := p.String("keep"); ok {
			out["keep"] = v
		}
		return out, nil
	}
	root := NewRootRoute()
	page := NewRoute(root, "page", ValidateSearch(strip))
	child := NewRoute(page, "child", View(func(Context, Component) Component { return nil }))
	page.AddChildren(child)
	root.AddChildren(page)
	tree, err := NewRouteTree(root)
	require.NoError(t, err)

	m, err := tree.Resolve(Location{}, "/page/child", search.Set(search.Params{"keep": "1", "drop": "2"}))
	require.NoError(t, err)

	want := search.Params{"keep": "1"}
	if diff := cmp.Diff(want, m.Location.Search); diff != "" {
		t.Errorf("location search mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, search.Params{"keep": "1", "drop": "2"}, m.Search[RootRouteID])
	assert.Equal(t, want, m.Search["/page/child"])
	assert.Equal(t, "/page/child?keep=1", m.Location.Href())
}

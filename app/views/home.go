package views

import (
	"context"
	"log/slog"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/routekit"
	"github.com/dmitrymomot/routekit/pkg/markdown"
	"github.com/dmitrymomot/routekit/pkg/search"
)

// HomeLink is a link from the home page to the test route.
type HomeLink struct {
	Label  string
	Search search.Params
}

// HomeLinks are the three search mutations offered on the home page.
var HomeLinks = []HomeLink{
	{
		Label:  "only setting foo: 'bar'",
		Search: search.Params{"foo": "bar"},
	},
	{
		Label:  "only setting foo: 'bar', name: 'Tanner'",
		Search: search.Params{"foo": "bar", "name": "Tanner"},
	},
	{
		Label: "only setting foo: 'bar', filters: Object(nested: 'i am nested')",
		Search: search.Params{
			"foo":     "bar",
			"name":    "Tanner",
			"filters": search.Params{"nested": "i am nested"},
		},
	},
}

// Home renders the welcome document and the test links. Links carry the
// search the test route will validate to.
func Home(doc *markdown.Document) routekit.ComponentFunc {
	return func(c routekit.Context, _ routekit.Component) routekit.Component {
		hrefs := make([]string, len(HomeLinks))
		for i, l := range HomeLinks {
			href, err := c.Link("/test", search.Set(l.Search))
			if err != nil {
				c.LogWarn("resolve link", slog.String("label", l.Label), slog.String("error", err.Error()))
				href = "/test"
			}
			hrefs[i] = href
		}

		return component(func(ctx context.Context, h *html) {
			h.raw(`<div class="p-2">`)
			if doc != nil {
				h.raw(`<div class="text-lg">`)
				h.render(ctx, templ.Raw(doc.HTML))
				h.raw(`</div>`)
			} else {
				h.raw(`<div class="text-lg">Welcome Home!</div>`)
			}
			for i, l := range HomeLinks {
				h.raw(`<br>`)
				link(h, hrefs[i], l.Label)
			}
			h.raw(`</div>`)
		})
	}
}

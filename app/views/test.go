package views

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dmitrymomot/routekit"
)

// TestPage renders the validated search and the loader output of routeID.
func TestPage(routeID string) routekit.ComponentFunc {
	return func(c routekit.Context, _ routekit.Component) routekit.Component {
		data := c.LoaderData(routeID)
		c.LogInfo("component loaderData", slog.Any("loaderData", data))
		c.LogInfo("component searchParams", slog.Any("searchParams", c.Search(routeID)))

		pretty, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			pretty = []byte(err.Error())
		}

		return component(func(_ context.Context, h *html) {
			h.raw(`<div class="p-2"><div class="p-2">`)
			link(h, "/", "Back")
			h.raw(`<h1>Welcome to the test route</h1><br>`)
			h.raw(`<p>Just returning search params in the loader. <i>Not important</i> </p>`)
			h.raw(`<pre class="py-4">Loader Data: `)
			h.text(string(pretty))
			h.raw(`</pre></div></div>`)
		})
	}
}

package views

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/routekit"
	"github.com/dmitrymomot/routekit/pkg/validator"
)

// ErrorPage shows a status, a message and any rejected fields.
func ErrorPage(code int, message string, fields validator.ValidationErrors) routekit.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div class="p-2 error"><h1>`)
		h.text(strconv.Itoa(code) + " " + http.StatusText(code))
		h.raw(`</h1><p>`)
		h.text(message)
		h.raw(`</p>`)
		if len(fields) > 0 {
			h.raw(`<ul class="fields">`)
			for _, f := range fields {
				h.raw(`<li><code>`)
				h.text(f.Field)
				h.raw(`</code> `)
				h.text(f.Message)
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`<a href="/">Back</a></div>`)
	})
}

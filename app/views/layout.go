// Package views renders the demo pages.
package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/routekit"
	"github.com/dmitrymomot/routekit/pkg/auth"
)

const pendingID = "pending"

// Layout is the root view: document shell, auth bar, pending indicator and
// the outlet child routes render into.
func Layout(c routekit.Context, outlet routekit.Component) routekit.Component {
	state := c.Auth()
	pending := c.Pending()
	return component(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>routekit</title>`)
		h.raw(`<link rel="stylesheet" href="/static/app.css">`)
		h.raw(`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`)
		h.raw(`<script src="https://unpkg.com/htmx-ext-preload@2.1.0/preload.js"></script>`)
		h.raw(`</head><body hx-ext="preload">`)

		h.render(ctx, authBar(state))

		h.raw(`<div`)
		h.attr("id", pendingID)
		h.raw(` class="htmx-indicator">`)
		h.render(ctx, pending)
		h.raw(`</div>`)

		h.raw(`<main`)
		h.attr("id", routekit.OutletID)
		h.raw(`>`)
		h.render(ctx, outlet)
		h.raw(`</main></body></html>`)
	})
}

func authBar(state auth.State) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<header class="auth"`)
		h.attr("data-status", string(state.Status))
		h.raw(`>`)
		if state.IsLoggedIn() {
			h.raw(`<span>Logged in as <strong>`)
			h.text(state.Username)
			h.raw(`</strong></span>`)
			h.raw(`<form method="post" action="/auth/logout"><button type="submit">Log out</button></form>`)
		} else {
			h.raw(`<form method="post" action="/auth/login">`)
			h.raw(`<input type="text" name="username" placeholder="username" required maxlength="64">`)
			h.raw(`<button type="submit">Log in</button></form>`)
		}
		h.raw(`</header>`)
	})
}

// Spinner is the pending component shown while a navigation is in flight.
func Spinner() routekit.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div class="p-2 text-2xl"><div class="spinner">&#10227;</div></div>`)
	})
}

// link renders an anchor that swaps the outlet over HTMX and preloads on hover.
func link(h *html, href, label string) {
	h.raw(`<a`)
	h.attr("href", href)
	h.attr("hx-get", href)
	h.attr("hx-target", "#"+routekit.OutletID)
	h.attr("hx-push-url", "true")
	h.attr("hx-indicator", "#"+pendingID)
	h.attr("preload", "mouseover")
	h.raw(`>`)
	h.text(label)
	h.raw(`</a>`)
}

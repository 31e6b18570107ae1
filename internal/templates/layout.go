// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"

	"github.com/a-h/templ"
)

// Layout wraps a page body in the site chrome.
func Layout(title string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw("<!doctype html><html")
		h.attr("lang", Locale(ctx))
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<meta name="csrf-token"`)
		h.attr("content", CSRFToken(ctx))
		h.raw("><title>")
		h.text(title + " | " + T(ctx, "app_name"))
		h.raw(`</title><link rel="stylesheet"`)
		h.attr("href", CSSPath(ctx))
		h.raw("></head><body>")

		nav(ctx, h)

		h.raw(`<main class="container">`)
		h.render(ctx, body)
		h.raw(`</main><footer class="footer"><p>`)
		h.text(T(ctx, "footer_text"))
		h.raw("</p></footer></body></html>")
	})
}

func nav(ctx context.Context, h *html) {
	h.raw(`<header class="nav"><a class="brand" href="/">`)
	h.text(T(ctx, "app_name"))
	h.raw(`</a><nav>`)
	link(ctx, h, "/", "nav_home")
	link(ctx, h, "/about", "nav_about")
	link(ctx, h, "/contact", "nav_contact")
	link(ctx, h, "/booking", "nav_booking")

	if user := GetUser(ctx); user != nil {
		h.raw(`<span class="greeting">`)
		h.text(TData(ctx, "nav_greeting", map[string]any{"Username": user.Username}))
		h.raw(`</span><form method="post" action="/logout" class="inline">`)
		csrfField(ctx, h)
		h.raw(`<button type="submit" class="link">`)
		h.text(T(ctx, "nav_logout"))
		h.raw("</button></form>")
	} else {
		link(ctx, h, "/login", "nav_login")
		link(ctx, h, "/signup", "nav_signup")
	}
	h.raw("</nav></header>")
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"
	"strconv"

	"codeberg.org/dreamstay/dreamstay/internal/services/booking"
	"github.com/a-h/templ"
)

func Home(rooms []booking.Room) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.render(ctx, Layout(T(ctx, "nav_home"), component(func(ctx context.Context, h *html) {
			h.raw(`<section class="hero"><h1>`)
			h.text(T(ctx, "home_title"))
			h.raw("</h1><p>")
			h.text(T(ctx, "home_lead"))
			h.raw(`</p><a class="button" href="/booking">`)
			h.text(T(ctx, "home_cta"))
			h.raw(`</a></section><section><h2>`)
			h.text(T(ctx, "rooms_title"))
			h.raw(`</h2><ul class="rooms">`)
			for _, room := range rooms {
				h.raw("<li><h3>")
				h.text(RoomName(ctx, room.Code))
				h.raw("</h3><p>")
				h.text(TData(ctx, "room_price", map[string]any{"Price": strconv.FormatInt(room.Price, 10)}))
				h.raw("</p></li>")
			}
			h.raw("</ul></section>")
		})))
	})
}

func About() templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.render(ctx, Layout(T(ctx, "about_title"), component(func(ctx context.Context, h *html) {
			h.raw("<h1>")
			h.text(T(ctx, "about_title"))
			h.raw("</h1><p>")
			h.text(T(ctx, "about_body"))
			h.raw("</p>")
		})))
	})
}

func Contact(form Form) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.render(ctx, Layout(T(ctx, "contact_title"), component(func(ctx context.Context, h *html) {
			h.raw("<h1>")
			h.text(T(ctx, "contact_title"))
			h.raw("</h1><p>")
			h.text(T(ctx, "contact_intro"))
			h.raw("</p>")
			messages(h, form)
			h.raw(`<form method="post" action="/contact" class="form">`)
			csrfField(ctx, h)
			input(ctx, h, field{name: "name", labelID: "field_name", typ: "text", value: form.Value("name")})
			input(ctx, h, field{name: "email", labelID: "field_email", typ: "email", value: form.Value("email")})
			h.raw(`<label class="field"><span>`)
			h.text(T(ctx, "field_message"))
			h.raw(`</span><textarea name="message" id="message" rows="6" required>`)
			h.text(form.Value("message"))
			h.raw("</textarea></label>")
			button(ctx, h, "button_send")
			h.raw("</form>")
		})))
	})
}

func ContactSuccess(name string) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.render(ctx, Layout(T(ctx, "contact_title"), component(func(ctx context.Context, h *html) {
			h.raw("<h1>")
			h.text(T(ctx, "contact_title"))
			h.raw(`</h1><p class="alert alert-success">`)
			h.text(TData(ctx, "contact_success", map[string]any{"Name": name}))
			h.raw("</p>")
		})))
	})
}

// Error renders an error page for the given status.
func Error(code int, title, message string) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.render(ctx, Layout(title, component(func(ctx context.Context, h *html) {
			h.raw(`<section class="error"><p class="code">`)
			h.text(strconv.Itoa(code))
			h.raw("</p><h1>")
			h.text(title)
			h.raw("</h1><p>")
			h.text(message)
			h.raw("</p>")
			link(ctx, h, "/", "error_back_home")
			h.raw("</section>")
		})))
	})
}

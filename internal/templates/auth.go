// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"

	"github.com/a-h/templ"
)

// formPage renders a titled page holding one form.
func formPage(titleID string, body func(ctx context.Context, h *html)) templ.Component {
	return component(func(ctx context.Context, h *html) {
		title := T(ctx, titleID)
		h.render(ctx, Layout(title, component(func(ctx context.Context, h *html) {
			h.raw(`<section class="card"><h1>`)
			h.text(title)
			h.raw("</h1>")
			body(ctx, h)
			h.raw("</section>")
		})))
	})
}

func otpInput(ctx context.Context, h *html) {
	input(ctx, h, field{
		name:    "otp",
		labelID: "field_otp",
		typ:     "text",
		extra:   `inputmode="numeric" pattern="[0-9]{6}" maxlength="6" autocomplete="one-time-code"`,
	})
}

func Signup(form Form) templ.Component {
	return formPage("signup_title", func(ctx context.Context, h *html) {
		messages(h, form)
		h.raw(`<form method="post" action="/signup" class="form">`)
		csrfField(ctx, h)
		input(ctx, h, field{name: "username", labelID: "field_username", typ: "text", value: form.Value("username")})
		input(ctx, h, field{name: "email", labelID: "field_email", typ: "email", value: form.Value("email")})
		input(ctx, h, field{name: "phone", labelID: "field_phone", typ: "tel", value: form.Value("phone")})
		input(ctx, h, field{name: "password", labelID: "field_password", typ: "password", extra: `autocomplete="new-password"`})
		input(ctx, h, field{name: "confirm_password", labelID: "field_confirm_password", typ: "password", extra: `autocomplete="new-password"`})
		button(ctx, h, "button_signup")
		h.raw(`</form><p class="hint">`)
		link(ctx, h, "/login", "signup_login_link")
		h.raw("</p>")
	})
}

func SignupVerify(email string, form Form) templ.Component {
	return formPage("signup_verify_title", func(ctx context.Context, h *html) {
		h.raw("<p>")
		h.text(TData(ctx, "signup_verify_intro", map[string]any{"Email": email}))
		h.raw("</p>")
		messages(h, form)
		h.raw(`<form method="post" action="/signup/verify" class="form">`)
		csrfField(ctx, h)
		otpInput(ctx, h)
		button(ctx, h, "button_verify")
		h.raw(`</form><form method="post" action="/signup/resend" class="inline">`)
		csrfField(ctx, h)
		h.raw(`<button type="submit" class="link">`)
		h.text(T(ctx, "button_resend"))
		h.raw("</button></form>")
	})
}

func Login(form Form, next string) templ.Component {
	return formPage("login_title", func(ctx context.Context, h *html) {
		messages(h, form)
		h.raw(`<form method="post" action="/login" class="form">`)
		csrfField(ctx, h)
		if next != "" {
			h.raw(`<input type="hidden" name="next"`)
			h.attr("value", next)
			h.raw(">")
		}
		input(ctx, h, field{name: "email", labelID: "field_email", typ: "email", value: form.Value("email")})
		input(ctx, h, field{name: "password", labelID: "field_password", typ: "password", extra: `autocomplete="current-password"`})
		button(ctx, h, "button_login")
		h.raw(`</form><p class="hint">`)
		link(ctx, h, "/forgot-password", "login_forgot_link")
		h.raw("</p><p class=\"hint\">")
		link(ctx, h, "/signup", "login_signup_link")
		h.raw("</p>")
	})
}

func ForgotPassword(form Form) templ.Component {
	return formPage("forgot_title", func(ctx context.Context, h *html) {
		h.raw("<p>")
		h.text(T(ctx, "forgot_intro"))
		h.raw("</p>")
		messages(h, form)
		h.raw(`<form method="post" action="/forgot-password" class="form">`)
		csrfField(ctx, h)
		input(ctx, h, field{name: "email", labelID: "field_email", typ: "email", value: form.Value("email")})
		button(ctx, h, "button_continue")
		h.raw("</form>")
	})
}

func ForgotVerify(email string, form Form) templ.Component {
	return formPage("forgot_verify_title", func(ctx context.Context, h *html) {
		h.raw("<p>")
		h.text(TData(ctx, "forgot_verify_intro", map[string]any{"Email": email}))
		h.raw("</p>")
		messages(h, form)
		h.raw(`<form method="post" action="/forgot-password/verify" class="form">`)
		csrfField(ctx, h)
		otpInput(ctx, h)
		button(ctx, h, "button_verify")
		h.raw("</form>")
	})
}

func ResetPassword(form Form) templ.Component {
	return formPage("reset_title", func(ctx context.Context, h *html) {
		messages(h, form)
		h.raw(`<form method="post" action="/reset-password" class="form">`)
		csrfField(ctx, h)
		input(ctx, h, field{name: "password", labelID: "field_password", typ: "password", extra: `autocomplete="new-password"`})
		input(ctx, h, field{name: "confirm_password", labelID: "field_confirm_password", typ: "password", extra: `autocomplete="new-password"`})
		button(ctx, h, "button_reset")
		h.raw("</form>")
	})
}

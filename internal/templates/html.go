// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// html writes markup and keeps the first error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) attr(name, value string) {
	h.raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}

// component adapts a writing function to templ.Component.
func component(fn func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(ctx, h)
		return h.err
	})
}

func csrfField(ctx context.Context, h *html) {
	h.raw(`<input type="hidden" name="csrf_token"`)
	h.attr("value", CSRFToken(ctx))
	h.raw(">")
}

func messages(h *html, form Form) {
	for _, msg := range form.Errors {
		h.raw(`<p class="alert alert-error" role="alert">`)
		h.text(msg)
		h.raw("</p>")
	}
	if form.Notice != "" {
		h.raw(`<p class="alert alert-success">`)
		h.text(form.Notice)
		h.raw("</p>")
	}
}

type field struct {
	name    string
	labelID string
	typ     string
	value   string
	extra   string
}

func input(ctx context.Context, h *html, f field) {
	h.raw(`<label class="field"><span>`)
	h.text(T(ctx, f.labelID))
	h.raw(`</span><input`)
	h.attr("type", f.typ)
	h.attr("name", f.name)
	h.attr("id", f.name)
	if f.value != "" {
		h.attr("value", f.value)
	}
	if f.extra != "" {
		h.raw(" " + f.extra)
	}
	h.raw(" required></label>")
}

func button(ctx context.Context, h *html, labelID string) {
	h.raw(`<button type="submit" class="button">`)
	h.text(T(ctx, labelID))
	h.raw("</button>")
}

func link(ctx context.Context, h *html, href, labelID string) {
	h.raw("<a")
	h.attr("href", href)
	h.raw(">")
	h.text(T(ctx, labelID))
	h.raw("</a>")
}

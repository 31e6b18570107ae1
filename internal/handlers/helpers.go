// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"codeberg.org/dreamstay/dreamstay/internal/services/session"
	"codeberg.org/dreamstay/dreamstay/internal/templates"
	"codeberg.org/dreamstay/dreamstay/internal/validator"
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render renders a templ component with the given status code.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := component.Render(c.Request().Context(), buf); err != nil {
		return err
	}

	return c.HTML(statusCode, buf.String())
}

// saveSession writes the session cookie.
func saveSession(c echo.Context, sessions *session.Manager, data *session.Data) error {
	cookie, err := sessions.Cookie(data)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	return nil
}

func redirect(c echo.Context, path string) error {
	return c.Redirect(http.StatusSeeOther, path)
}

// bindAndValidate binds the request into form and runs the validator. A
// non-empty message means the input was rejected.
func bindAndValidate(c echo.Context, form any, order ...string) (string, error) {
	if err := c.Bind(form); err != nil {
		return templates.T(c.Request().Context(), "error_invalid_request"), nil
	}
	if err := c.Validate(form); err != nil {
		var ve validator.ValidationError
		if errors.As(err, &ve) {
			return ve.First(order...), nil
		}
		return "", err
	}
	return "", nil
}

// values keeps the named form fields for re-rendering.
func values(c echo.Context, names ...string) map[string]string {
	v := make(map[string]string, len(names))
	for _, name := range names {
		v[name] = strings.TrimSpace(c.FormValue(name))
	}
	return v
}

// WantsJSON reports whether the client sent or expects JSON.
func WantsJSON(c echo.Context) bool {
	r := c.Request()
	return strings.HasPrefix(r.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) ||
		strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// safeNext accepts only local absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

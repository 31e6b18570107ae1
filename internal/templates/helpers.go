// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"

	"codeberg.org/dreamstay/dreamstay/internal/appcontext"
	"codeberg.org/dreamstay/dreamstay/internal/i18n"
	"codeberg.org/dreamstay/dreamstay/internal/models"
)

// CSRFToken returns the CSRF token from the context.
func CSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(appcontext.CSRFToken{}).(string); ok {
		return token
	}
	return ""
}

// T translates a message by ID.
func T(ctx context.Context, messageID string) string {
	return i18n.T(ctx, messageID)
}

// TData translates a message with template data.
func TData(ctx context.Context, messageID string, data map[string]any) string {
	return i18n.TData(ctx, messageID, data)
}

// TPlural translates a plural message.
func TPlural(ctx context.Context, messageID string, count int) string {
	return i18n.TPlural(ctx, messageID, count)
}

// Locale returns the current locale.
func Locale(ctx context.Context) string {
	return i18n.GetLocale(ctx)
}

// CSSPath returns the path to the stylesheet.
func CSSPath(ctx context.Context) string {
	if path, ok := ctx.Value(appcontext.CSSPath{}).(string); ok {
		return path
	}
	return "/static/css/styles.css"
}

// JSPath returns the path to the booking script.
func JSPath(ctx context.Context) string {
	if path, ok := ctx.Value(appcontext.JSPath{}).(string); ok {
		return path
	}
	return "/static/js/booking.js"
}

// GetUser returns the authenticated user from context, or nil if not logged in.
func GetUser(ctx context.Context) *models.User {
	return appcontext.UserFrom(ctx)
}

// IsAuthenticated returns true if a user is logged in.
func IsAuthenticated(ctx context.Context) bool {
	return GetUser(ctx) != nil
}

// RoomName translates a room code.
func RoomName(ctx context.Context, code string) string {
	return T(ctx, "room_"+code)
}

// Form carries submitted values and messages back into a page.
type Form struct {
	Values map[string]string
	Errors []string
	Notice string
}

// Value returns the submitted value of a field.
func (f Form) Value(name string) string {
	return f.Values[name]
}

// WithError returns a copy of f with msg appended to its errors.
func (f Form) WithError(msg string) Form {
	f.Errors = append(append([]string(nil), f.Errors...), msg)
	return f
}

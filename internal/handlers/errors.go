// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"codeberg.org/dreamstay/dreamstay/internal/services/auth"
	"codeberg.org/dreamstay/dreamstay/internal/services/booking"
	"codeberg.org/dreamstay/dreamstay/internal/services/otp"
	"codeberg.org/dreamstay/dreamstay/internal/templates"
	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders error pages for unhandled errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}

	if code >= http.StatusInternalServerError {
		slog.Error("request_failed", "error", err, "method", c.Request().Method, "uri", c.Request().RequestURI)
	}

	ctx := c.Request().Context()
	if WantsJSON(c) {
		_ = c.JSON(code, map[string]any{"ok": false, "message": errorBody(ctx, code)})
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	if renderErr := Render(c, code, templates.Error(code, errorTitle(ctx, code), errorBody(ctx, code))); renderErr != nil {
		slog.Error("failed to render error page", "error", renderErr)
	}
}

func errorTitle(ctx context.Context, code int) string {
	switch code {
	case http.StatusForbidden:
		return templates.T(ctx, "error_403_title")
	case http.StatusNotFound:
		return templates.T(ctx, "error_404_title")
	case http.StatusInternalServerError:
		return templates.T(ctx, "error_500_title")
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Error"
}

func errorBody(ctx context.Context, code int) string {
	switch code {
	case http.StatusForbidden:
		return templates.T(ctx, "error_403_body")
	case http.StatusNotFound:
		return templates.T(ctx, "error_404_body")
	case http.StatusBadRequest:
		return templates.T(ctx, "error_invalid_request")
	}
	return templates.T(ctx, "error_500_body")
}

// userMessages turns a service error into messages for the form. ok is
// false for errors the user cannot act on.
func userMessages(ctx context.Context, err error) (msgs []string, ok bool) {
	var pve *auth.PasswordValidationError
	if errors.As(err, &pve) {
		return pve.Messages(ctx), true
	}

	var id string
	switch {
	case errors.Is(err, otp.ErrNotFound):
		id = "error_otp_not_found"
	case errors.Is(err, otp.ErrExpired):
		id = "error_otp_expired"
	case errors.Is(err, otp.ErrMismatch):
		id = "error_otp_mismatch"
	case errors.Is(err, otp.ErrDelivery):
		id = "error_otp_delivery"
	case errors.Is(err, auth.ErrPasswordMismatch):
		id = "error_passwords_mismatch"
	case errors.Is(err, auth.ErrEmailTaken):
		id = "error_email_taken"
	case errors.Is(err, auth.ErrInvalidEmail):
		id = "error_invalid_email"
	case errors.Is(err, auth.ErrInvalidCredentials):
		id = "error_invalid_credentials"
	case errors.Is(err, auth.ErrEmailNotRegistered):
		id = "error_email_not_registered"
	case errors.Is(err, booking.ErrPhoneNotVerified):
		id = "error_phone_not_verified"
	case errors.Is(err, booking.ErrUnknownRoom):
		id = "error_unknown_room"
	case errors.Is(err, booking.ErrInvalidDates):
		id = "error_invalid_dates"
	case errors.Is(err, booking.ErrCheckInPast):
		id = "error_check_in_past"
	case errors.Is(err, booking.ErrInvalidGuests):
		return []string{templates.TData(ctx, "error_invalid_guests", map[string]any{"Max": booking.MaxGuests})}, true
	default:
		return nil, false
	}
	return []string{templates.T(ctx, id)}, true
}

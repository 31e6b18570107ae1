// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"codeberg.org/dreamstay/dreamstay/internal/appcontext"
	"codeberg.org/dreamstay/dreamstay/internal/i18n"
	"codeberg.org/dreamstay/dreamstay/internal/models"
	"codeberg.org/dreamstay/dreamstay/internal/services/booking"
	"codeberg.org/dreamstay/dreamstay/internal/templates"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func renderString(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func englishContext() context.Context {
	ctx := i18n.WithLocale(context.Background(), language.English)
	return context.WithValue(ctx, appcontext.CSRFToken{}, "tok-123")
}

func TestLayout_Anonymous(t *testing.T) {
	out := renderString(t, englishContext(), templates.About())

	assert.Contains(t, out, "<!doctype html>")
	assert.Contains(t, out, `<html lang="en">`)
	assert.Contains(t, out, `<meta name="csrf-token" content="tok-123">`)
	assert.Contains(t, out, `href="/login"`)
	assert.NotContains(t, out, `action="/logout"`)
}

func TestLayout_SignedIn(t *testing.T) {
	ctx := appcontext.WithUser(englishContext(), &models.User{ID: 1, Username: "asha"})

	out := renderString(t, ctx, templates.About())

	assert.Contains(t, out, "Hello, asha")
	assert.Contains(t, out, `action="/logout"`)
}

func TestLayout_German(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.German)

	out := renderString(t, ctx, templates.About())

	assert.Contains(t, out, `<html lang="de">`)
	assert.Contains(t, out, "Über uns")
}

func TestHome_ListsRooms(t *testing.T) {
	out := renderString(t, englishContext(), templates.Home(booking.Rooms))

	assert.Contains(t, out, "Luxury Villa")
	assert.Contains(t, out, "₹12000 per night and guest")
}

func TestContact_EscapesValues(t *testing.T) {
	form := templates.Form{
		Values: map[string]string{"name": `<script>alert(1)</script>`},
		Errors: []string{"email is a required field"},
	}

	out := renderString(t, englishContext(), templates.Contact(form))

	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "email is a required field")
	assert.Contains(t, out, `name="csrf_token" value="tok-123"`)
}

func TestSignupVerify(t *testing.T) {
	out := renderString(t, englishContext(), templates.SignupVerify("asha@example.com", templates.Form{Notice: "A new code has been sent."}))

	assert.Contains(t, out, "We sent a code to asha@example.com.")
	assert.Contains(t, out, `action="/signup/resend"`)
	assert.Contains(t, out, "A new code has been sent.")
}

func TestLogin_KeepsNext(t *testing.T) {
	out := renderString(t, englishContext(), templates.Login(templates.Form{}, "/booking"))

	assert.Contains(t, out, `name="next" value="/booking"`)
}

func TestBooking(t *testing.T) {
	page := templates.BookingPage{
		Form:          templates.Form{Values: map[string]string{"room_type": "suite"}},
		Rooms:         booking.Rooms,
		PhoneVerified: true,
		VerifiedPhone: "+919876543210",
		MinDate:       "2025-03-01",
	}

	out := renderString(t, englishContext(), templates.Booking(page))

	assert.Contains(t, out, `data-phone-verified="true"`)
	assert.Contains(t, out, `value="+919876543210"`)
	assert.Contains(t, out, `<option value="suite" data-price="6000" selected>`)
	assert.Contains(t, out, "Phone number verified.")
	assert.Contains(t, out, "You have no bookings yet.")
	assert.Contains(t, out, `src="/static/js/booking.js"`)
}

func TestPayment(t *testing.T) {
	b := &models.Booking{
		Reference:     "ref-1",
		RoomType:      "deluxe",
		CheckIn:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Guests:        2,
		TotalPrice:    18000,
		PaymentStatus: models.PaymentPending,
	}

	out := renderString(t, englishContext(), templates.Payment(b, ""))
	assert.Contains(t, out, "2 nights")
	assert.Contains(t, out, "₹18000")
	assert.Contains(t, out, `action="/booking/payment"`)

	b.PaymentStatus = models.PaymentPaid
	out = renderString(t, englishContext(), templates.Payment(b, "Payment received. Your stay is confirmed."))
	assert.NotContains(t, out, `action="/booking/payment"`)
	assert.Contains(t, out, "Paid")
}

func TestError(t *testing.T) {
	out := renderString(t, englishContext(), templates.Error(404, "Page not found", "missing"))

	assert.Contains(t, out, "404")
	assert.Contains(t, out, "Page not found")
}

func TestForm_WithError(t *testing.T) {
	f := templates.Form{Errors: []string{"a"}}

	g := f.WithError("b")

	assert.Equal(t, []string{"a"}, f.Errors)
	assert.Equal(t, []string{"a", "b"}, g.Errors)
}

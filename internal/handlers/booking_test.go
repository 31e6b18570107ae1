// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"codeberg.org/dreamstay/dreamstay/internal/models"
	"codeberg.org/dreamstay/dreamstay/internal/services/sms"
	"codeberg.org/dreamstay/dreamstay/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResult(t *testing.T, body string) sms.Result {
	t.Helper()
	var res sms.Result
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	return res
}

func bookingValues() url.Values {
	return url.Values{
		"name":      {"Asha"},
		"email":     {"asha@example.com"},
		"phone":     {"98765 43210"},
		"room_type": {"deluxe"},
		"check_in":  {"2025-03-01"},
		"check_out": {"2025-03-03"},
		"guests":    {"2"},
	}
}

// verifiedPhone runs the phone OTP flow and returns the session cookie.
func verifiedPhone(t *testing.T, env *testEnv, ck *http.Cookie) *http.Cookie {
	t.Helper()
	c, rec := env.postJSON("/booking/verify-otp", `{"phone":"98765 43210","otp":"`+mockCode+`"}`, ck)
	require.NoError(t, env.booking.VerifyOTP(c))
	require.True(t, decodeResult(t, rec.Body.String()).OK)
	return sessionCookie(t, rec)
}

func TestBookingPage(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.NewTestUser(t, env.repo, "asha", "asha@example.com")
	c, rec := env.get("/booking", env.signedIn(t, user))

	require.NoError(t, env.booking.BookingPage(asUser(c, user)))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="asha@example.com"`)
	assert.Contains(t, body, `value="+919876543210"`)
	assert.Contains(t, body, `min="2025-03-01"`)
}

func TestBookingPage_Anonymous(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.get("/booking")

	assert.Equal(t, echo.ErrUnauthorized, env.booking.BookingPage(c))
}

func TestRequestOTP_MissingPhone(t *testing.T) {
	env := newTestEnv(t)
	c, rec := env.postJSON("/booking/request-otp", `{"phone":"  "}`)

	require.NoError(t, env.booking.RequestOTP(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	res := decodeResult(t, rec.Body.String())
	assert.False(t, res.OK)
	assert.Equal(t, "Phone number is required.", res.Message)
}

func TestRequestOTP_Mock(t *testing.T) {
	env := newTestEnv(t)
	c, rec := env.postJSON("/booking/request-otp", `{"phone":"98765 43210"}`)

	require.NoError(t, env.booking.RequestOTP(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	res := decodeResult(t, rec.Body.String())
	assert.True(t, res.OK)
	assert.True(t, res.Mock)
	assert.Equal(t, mockCode, res.MockCode)
	assert.Contains(t, res.Message, mockCode)
}

func TestRequestOTP_ResetsEarlierVerification(t *testing.T) {
	env := newTestEnv(t)
	ck := verifiedPhone(t, env, nil)
	c, rec := env.postJSON("/booking/request-otp", `{"phone":"+441234567890"}`, ck)

	require.NoError(t, env.booking.RequestOTP(c))

	data := env.sessionData(t, sessionCookie(t, rec))
	assert.False(t, data.PhoneVerified)
	assert.Empty(t, data.VerifiedPhone)
}

func TestVerifyOTP_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	c, rec := env.postJSON("/booking/verify-otp", `{"phone":"9876543210"}`)

	require.NoError(t, env.booking.VerifyOTP(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Phone and OTP required", decodeResult(t, rec.Body.String()).Message)
}

func TestPhoneOTP_RejectsInvalidNumber(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"request letters", "/booking/request-otp", `{"phone":"abc"}`},
		{"request too short", "/booking/request-otp", `{"phone":"123"}`},
		{"verify letters", "/booking/verify-otp", `{"phone":"abc","otp":"123456"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			c, rec := env.postJSON(tt.path, tt.body)

			if tt.path == "/booking/request-otp" {
				require.NoError(t, env.booking.RequestOTP(c))
			} else {
				require.NoError(t, env.booking.VerifyOTP(c))
			}

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			res := decodeResult(t, rec.Body.String())
			assert.False(t, res.OK)
			assert.Equal(t, "Invalid phone number format. Please enter a valid phone number.", res.Message)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	env := newTestEnv(t)
	c, rec := env.postJSON("/booking/verify-otp", `{"phone":"9876543210","otp":"000000"}`)

	require.NoError(t, env.booking.VerifyOTP(c))

	res := decodeResult(t, rec.Body.String())
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "Invalid OTP")
	assert.Empty(t, rec.Result().Cookies())
}

func TestVerifyOTP_Success(t *testing.T) {
	env := newTestEnv(t)

	ck := verifiedPhone(t, env, nil)

	data := env.sessionData(t, ck)
	assert.True(t, data.PhoneVerified)
	assert.Equal(t, "+919876543210", data.VerifiedPhone)
}

func TestCreateBooking_RequiresVerifiedPhone(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.NewTestUser(t, env.repo, "asha", "asha@example.com")
	c, rec := env.postForm("/booking", bookingValues(), env.signedIn(t, user))

	require.NoError(t, env.booking.CreateBooking(asUser(c, user)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please verify your phone number first.")
}

func TestCreateBooking_OtherPhone(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.NewTestUser(t, env.repo, "asha", "asha@example.com")
	ck := verifiedPhone(t, env, env.signedIn(t, user))
	form := bookingValues()
	form.Set("phone", "91234 56789")
	c, rec := env.postForm("/booking", form, ck)

	require.NoError(t, env.booking.CreateBooking(asUser(c, user)))

	assert.Contains(t, rec.Body.String(), "Please verify your phone number first.")
}

func TestCreateBooking_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"bad date", "check_in", "01/03/2025", "Please enter dates as YYYY-MM-DD."},
		{"reversed dates", "check_out", "2025-02-27", "Check-out must be after check-in."},
		{"unknown room", "room_type", "penthouse", "Please choose a room type."},
		{"too many guests", "guests", "12", "Please enter between 1 and 10 guests."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			user := testutil.NewTestUser(t, env.repo, "asha", "asha@example.com")
			ck := verifiedPhone(t, env, env.signedIn(t, user))
			form := bookingValues()
			form.Set(tt.field, tt.value)
			c, rec := env.postForm("/booking", form, ck)

			require.NoError(t, env.booking.CreateBooking(asUser(c, user)))

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestBookingAndPayment(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.NewTestUser(t, env.repo, "asha", "asha@example.com")
	ck := verifiedPhone(t, env, env.signedIn(t, user))

	c, rec := env.postForm("/booking", bookingValues(), ck)
	require.NoError(t, env.booking.CreateBooking(asUser(c, user)))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/booking/payment?ref="))
	ck = sessionCookie(t, rec)
	assert.False(t, env.sessionData(t, ck).PhoneVerified)

	list, err := env.repo.ListBookingsByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	b := list[0]
	assert.Equal(t, int64(18000), b.TotalPrice)
	assert.Equal(t, models.PaymentPending, b.PaymentStatus)
	assert.True(t, b.PhoneVerified)

	c, rec = env.get(location, ck)
	require.NoError(t, env.booking.PaymentPage(asUser(c, user)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), b.Reference)
	assert.Contains(t, rec.Body.String(), "Awaiting payment")

	c, rec = env.postForm("/booking/payment", url.Values{"ref": {b.Reference}}, ck)
	require.NoError(t, env.booking.Pay(asUser(c, user)))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	c, rec = env.get(rec.Header().Get("Location"), ck)
	require.NoError(t, env.booking.PaymentPage(asUser(c, user)))
	assert.Contains(t, rec.Body.String(), "Payment received. Your stay is confirmed.")

	paid, err := env.repo.GetBookingByReference(context.Background(), b.Reference)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid())
}

func TestPaymentPage_OtherUser(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.NewTestUser(t, env.repo, "asha", "asha@example.com")
	other := testutil.NewTestUser(t, env.repo, "ravi", "ravi@example.com")
	ck := verifiedPhone(t, env, env.signedIn(t, owner))
	c, rec := env.postForm("/booking", bookingValues(), ck)
	require.NoError(t, env.booking.CreateBooking(asUser(c, owner)))

	c, _ = env.get(rec.Header().Get("Location"), env.signedIn(t, other))
	assert.Equal(t, echo.ErrNotFound, env.booking.PaymentPage(asUser(c, other)))

	ref, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	c, _ = env.postForm("/booking/payment", url.Values{"ref": {ref.Query().Get("ref")}}, env.signedIn(t, other))
	assert.Equal(t, echo.ErrNotFound, env.booking.Pay(asUser(c, other)))
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"codeberg.org/dreamstay/dreamstay/internal/appcontext"
	"codeberg.org/dreamstay/dreamstay/internal/clock"
	"codeberg.org/dreamstay/dreamstay/internal/models"
	"codeberg.org/dreamstay/dreamstay/internal/services/booking"
	"codeberg.org/dreamstay/dreamstay/internal/services/session"
	"codeberg.org/dreamstay/dreamstay/internal/services/sms"
	"codeberg.org/dreamstay/dreamstay/internal/templates"
	"github.com/labstack/echo/v4"
)

// BookingHandlers contains handlers for phone verification, booking and payment.
type BookingHandlers struct {
	bookings    *booking.Service
	sms         sms.Verifier
	sessions    *session.Manager
	clock       clock.Clocker
	countryCode string
}

// NewBooking creates a new BookingHandlers instance.
func NewBooking(bookings *booking.Service, verifier sms.Verifier, sess *session.Manager, clk clock.Clocker, countryCode string) *BookingHandlers {
	return &BookingHandlers{
		bookings:    bookings,
		sms:         verifier,
		sessions:    sess,
		clock:       clk,
		countryCode: countryCode,
	}
}

type phoneOTPRequest struct {
	Phone string `json:"phone" form:"phone"`
	OTP   string `json:"otp" form:"otp"`
}

type bookingForm struct {
	Name     string `form:"name" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,email"`
	Phone    string `form:"phone" validate:"required,phone"`
	RoomType string `form:"room_type" validate:"required"`
	CheckIn  string `form:"check_in" validate:"required"`
	CheckOut string `form:"check_out" validate:"required"`
	Guests   int    `form:"guests" validate:"required,min=1"`
}

var bookingFields = []string{"name", "email", "phone", "room_type", "check_in", "check_out", "guests"}

func jsonFailure(c echo.Context, status int, messageID string) error {
	return c.JSON(status, sms.Result{Message: templates.T(c.Request().Context(), messageID)})
}

func (h *BookingHandlers) page(c echo.Context, status int, user *models.User, form templates.Form) error {
	data := h.sessions.Load(c.Request())

	list, err := h.bookings.List(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return Render(c, status, templates.Booking(templates.BookingPage{
		Form:          form,
		Rooms:         booking.Rooms,
		Bookings:      list,
		PhoneVerified: data.PhoneVerified,
		VerifiedPhone: data.VerifiedPhone,
		MinDate:       h.clock.Now().UTC().Format(booking.DateLayout),
	}))
}

// BookingPage renders the booking form, prefilled from the account.
func (h *BookingHandlers) BookingPage(c echo.Context) error {
	user := appcontext.CurrentUser(c)
	if user == nil {
		return echo.ErrUnauthorized
	}

	return h.page(c, http.StatusOK, user, templates.Form{Values: map[string]string{
		"name":  user.Username,
		"email": user.Email,
		"phone": user.Phone,
	}})
}

// RequestOTP sends a verification code to the phone number.
func (h *BookingHandlers) RequestOTP(c echo.Context) error {
	var req phoneOTPRequest
	if err := c.Bind(&req); err != nil {
		return jsonFailure(c, http.StatusBadRequest, "error_invalid_request")
	}
	if strings.TrimSpace(req.Phone) == "" {
		return jsonFailure(c, http.StatusBadRequest, "error_phone_required")
	}

	phone := sms.NormalizePhone(req.Phone, h.countryCode)
	if !sms.IsE164(phone) {
		return jsonFailure(c, http.StatusBadRequest, "sms_error_invalid_number")
	}

	// A new code invalidates an earlier verification.
	data := h.sessions.Load(c.Request())
	if data.PhoneVerified {
		data.ClearPhone()
		if err := saveSession(c, h.sessions, data); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, h.sms.Send(c.Request().Context(), phone))
}

// VerifyOTP checks the code and marks the phone as verified in the session.
func (h *BookingHandlers) VerifyOTP(c echo.Context) error {
	var req phoneOTPRequest
	if err := c.Bind(&req); err != nil {
		return jsonFailure(c, http.StatusBadRequest, "error_invalid_request")
	}
	if strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.OTP) == "" {
		return jsonFailure(c, http.StatusBadRequest, "error_phone_otp_required")
	}

	phone := sms.NormalizePhone(req.Phone, h.countryCode)
	if !sms.IsE164(phone) {
		return jsonFailure(c, http.StatusBadRequest, "sms_error_invalid_number")
	}
	res := h.sms.Check(c.Request().Context(), phone, strings.TrimSpace(req.OTP))

	if res.OK {
		data := h.sessions.Load(c.Request())
		data.PhoneVerified = true
		data.VerifiedPhone = phone
		if err := saveSession(c, h.sessions, data); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, res)
}

// CreateBooking stores a booking for a verified phone number.
func (h *BookingHandlers) CreateBooking(c echo.Context) error {
	user := appcontext.CurrentUser(c)
	if user == nil {
		return echo.ErrUnauthorized
	}
	ctx := c.Request().Context()
	page := templates.Form{Values: values(c, bookingFields...)}

	var form bookingForm
	msg, err := bindAndValidate(c, &form, bookingFields...)
	if err != nil {
		return err
	}
	if msg != "" {
		return h.page(c, http.StatusUnprocessableEntity, user, page.WithError(msg))
	}

	checkIn, errIn := booking.ParseDate(form.CheckIn)
	checkOut, errOut := booking.ParseDate(form.CheckOut)
	if errIn != nil || errOut != nil {
		return h.page(c, http.StatusUnprocessableEntity, user, page.WithError(templates.T(ctx, "error_invalid_date")))
	}

	data := h.sessions.Load(c.Request())
	verified := ""
	if data.PhoneVerified {
		verified = data.VerifiedPhone
	}

	b, err := h.bookings.Create(ctx, booking.Request{
		UserID:   user.ID,
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		RoomType: form.RoomType,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   form.Guests,
	}, verified)
	if err != nil {
		msgs, ok := userMessages(ctx, err)
		if !ok {
			return err
		}
		page.Errors = msgs
		return h.page(c, http.StatusUnprocessableEntity, user, page)
	}

	data.ClearPhone()
	if err := saveSession(c, h.sessions, data); err != nil {
		return err
	}
	return redirect(c, "/booking/payment?ref="+url.QueryEscape(b.Reference))
}

// PaymentPage shows a booking and the payment button.
func (h *BookingHandlers) PaymentPage(c echo.Context) error {
	user := appcontext.CurrentUser(c)
	if user == nil {
		return echo.ErrUnauthorized
	}
	ctx := c.Request().Context()

	b, err := h.bookings.Get(ctx, c.QueryParam("ref"), user.ID)
	if errors.Is(err, booking.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}

	notice := ""
	if c.QueryParam("paid") == "1" && b.IsPaid() {
		notice = templates.T(ctx, "payment_success")
	}
	return Render(c, http.StatusOK, templates.Payment(b, notice))
}

// Pay records the mock payment.
func (h *BookingHandlers) Pay(c echo.Context) error {
	user := appcontext.CurrentUser(c)
	if user == nil {
		return echo.ErrUnauthorized
	}

	b, err := h.bookings.Pay(c.Request().Context(), c.FormValue("ref"), user.ID)
	if errors.Is(err, booking.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}

	return redirect(c, "/booking/payment?paid=1&ref="+url.QueryEscape(b.Reference))
}

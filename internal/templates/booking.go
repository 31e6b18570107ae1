// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"
	"strconv"

	"codeberg.org/dreamstay/dreamstay/internal/models"
	"codeberg.org/dreamstay/dreamstay/internal/services/booking"
	"github.com/a-h/templ"
)

// BookingPage holds what the booking form needs.
type BookingPage struct {
	Form          Form
	Rooms         []booking.Room
	Bookings      []models.Booking
	PhoneVerified bool
	VerifiedPhone string
	MinDate       string
}

func Booking(p BookingPage) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.render(ctx, Layout(T(ctx, "booking_title"), component(func(ctx context.Context, h *html) {
			h.raw(`<section class="card"><h1>`)
			h.text(T(ctx, "booking_title"))
			h.raw("</h1><p>")
			h.text(T(ctx, "booking_intro"))
			h.raw("</p>")
			messages(h, p.Form)

			phone := p.Form.Value("phone")
			if phone == "" {
				phone = p.VerifiedPhone
			}

			h.raw(`<form method="post" action="/booking" class="form" id="booking-form"`)
			h.attr("data-phone-verified", strconv.FormatBool(p.PhoneVerified))
			h.raw(">")
			csrfField(ctx, h)
			input(ctx, h, field{name: "name", labelID: "field_name", typ: "text", value: p.Form.Value("name")})
			input(ctx, h, field{name: "email", labelID: "field_email", typ: "email", value: p.Form.Value("email")})

			h.raw(`<fieldset class="phone"><div class="row">`)
			input(ctx, h, field{name: "phone", labelID: "field_phone", typ: "tel", value: phone})
			h.raw(`<button type="button" class="button secondary" id="send-otp">`)
			h.text(T(ctx, "button_send_otp"))
			h.raw(`</button></div><p class="hint">`)
			h.text(T(ctx, "booking_phone_hint"))
			h.raw(`</p><div class="row" id="otp-row" hidden><label class="field"><span>`)
			h.text(T(ctx, "field_otp"))
			h.raw(`</span><input type="text" id="phone-otp" inputmode="numeric" maxlength="6" autocomplete="one-time-code"></label>`)
			h.raw(`<button type="button" class="button secondary" id="verify-otp">`)
			h.text(T(ctx, "button_verify_otp"))
			h.raw(`</button></div><p id="otp-status" class="status" aria-live="polite">`)
			if p.PhoneVerified {
				h.text(T(ctx, "booking_phone_verified"))
			}
			h.raw("</p></fieldset>")

			h.raw(`<label class="field"><span>`)
			h.text(T(ctx, "field_room_type"))
			h.raw(`</span><select name="room_type" id="room_type" required><option value=""></option>`)
			for _, room := range p.Rooms {
				h.raw("<option")
				h.attr("value", room.Code)
				h.attr("data-price", strconv.FormatInt(room.Price, 10))
				if room.Code == p.Form.Value("room_type") {
					h.raw(" selected")
				}
				h.raw(">")
				h.text(RoomName(ctx, room.Code) + " (₹" + strconv.FormatInt(room.Price, 10) + ")")
				h.raw("</option>")
			}
			h.raw("</select></label>")

			input(ctx, h, field{name: "check_in", labelID: "field_check_in", typ: "date", value: p.Form.Value("check_in"), extra: `min="` + templ.EscapeString(p.MinDate) + `"`})
			input(ctx, h, field{name: "check_out", labelID: "field_check_out", typ: "date", value: p.Form.Value("check_out"), extra: `min="` + templ.EscapeString(p.MinDate) + `"`})
			guests := p.Form.Value("guests")
			if guests == "" {
				guests = "1"
			}
			input(ctx, h, field{name: "guests", labelID: "field_guests", typ: "number", value: guests, extra: `min="1" max="` + strconv.Itoa(booking.MaxGuests) + `"`})

			h.raw(`<p class="total">`)
			h.text(T(ctx, "booking_total"))
			h.raw(`: ₹<span id="booking-total">0</span></p>`)
			button(ctx, h, "button_book")
			h.raw("</form></section>")

			bookingList(ctx, h, p.Bookings)

			h.raw(`<script defer`)
			h.attr("src", JSPath(ctx))
			h.raw("></script>")
		})))
	})
}

func bookingList(ctx context.Context, h *html, bookings []models.Booking) {
	h.raw(`<section class="card"><h2>`)
	h.text(T(ctx, "bookings_title"))
	h.raw("</h2>")
	if len(bookings) == 0 {
		h.raw("<p>")
		h.text(T(ctx, "bookings_empty"))
		h.raw("</p></section>")
		return
	}
	h.raw(`<ul class="bookings">`)
	for _, b := range bookings {
		h.raw("<li><a")
		h.attr("href", "/booking/payment?ref="+b.Reference)
		h.raw(">")
		h.text(RoomName(ctx, b.RoomType) + ", " + b.CheckIn.Format(booking.DateLayout) + " – " + b.CheckOut.Format(booking.DateLayout))
		h.raw("</a> ")
		paymentStatus(ctx, h, &b)
		h.raw("</li>")
	}
	h.raw("</ul></section>")
}

func paymentStatus(ctx context.Context, h *html, b *models.Booking) {
	if b.IsPaid() {
		h.raw(`<span class="badge paid">`)
		h.text(T(ctx, "payment_status_paid"))
	} else {
		h.raw(`<span class="badge pending">`)
		h.text(T(ctx, "payment_status_pending"))
	}
	h.raw("</span>")
}

func Payment(b *models.Booking, notice string) templ.Component {
	return formPage("payment_title", func(ctx context.Context, h *html) {
		if notice != "" {
			messages(h, Form{Notice: notice})
		}
		h.raw(`<dl class="summary"><dt>`)
		h.text(T(ctx, "payment_reference"))
		h.raw("</dt><dd><code>")
		h.text(b.Reference)
		h.raw("</code></dd><dt>")
		h.text(T(ctx, "field_room_type"))
		h.raw("</dt><dd>")
		h.text(RoomName(ctx, b.RoomType))
		h.raw("</dd><dt>")
		h.text(T(ctx, "payment_dates"))
		h.raw("</dt><dd>")
		h.text(b.CheckIn.Format(booking.DateLayout) + " – " + b.CheckOut.Format(booking.DateLayout) + " (" + TPlural(ctx, "booking_nights", b.Nights()) + ")")
		h.raw("</dd><dt>")
		h.text(T(ctx, "field_guests"))
		h.raw("</dt><dd>")
		h.text(strconv.Itoa(b.Guests))
		h.raw("</dd><dt>")
		h.text(T(ctx, "booking_total"))
		h.raw("</dt><dd>₹")
		h.text(strconv.FormatInt(b.TotalPrice, 10))
		h.raw("</dd><dt>")
		h.text(T(ctx, "payment_status"))
		h.raw("</dt><dd>")
		paymentStatus(ctx, h, b)
		h.raw("</dd></dl>")

		if !b.IsPaid() {
			h.raw(`<form method="post" action="/booking/payment" class="form">`)
			csrfField(ctx, h)
			h.raw(`<input type="hidden" name="ref"`)
			h.attr("value", b.Reference)
			h.raw(">")
			button(ctx, h, "button_pay")
			h.raw("</form>")
		}
	})
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"database/sql"
	"time"
)

// Payment states of a booking.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// Booking is a room reservation. TotalPrice is in whole rupees.
type Booking struct { //nolint:govet // fieldalignment: readability over optimization
	ID            int64         `db:"id" json:"id"`
	Reference     string        `db:"reference" json:"reference"`
	UserID        sql.NullInt64 `db:"user_id" json:"-"`
	Name          string        `db:"name" json:"name"`
	Email         string        `db:"email" json:"email"`
	Phone         string        `db:"phone" json:"phone"`
	RoomType      string        `db:"room_type" json:"room_type"`
	CheckIn       time.Time     `db:"check_in" json:"check_in"`
	CheckOut      time.Time     `db:"check_out" json:"check_out"`
	Guests        int           `db:"guests" json:"guests"`
	PhoneVerified bool          `db:"phone_verified" json:"phone_verified"`
	PaymentStatus string        `db:"payment_status" json:"payment_status"`
	TotalPrice    int64         `db:"total_price" json:"total_price"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// Nights returns the number of nights between check-in and check-out.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// IsPaid reports whether the mock payment has been made.
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid
}

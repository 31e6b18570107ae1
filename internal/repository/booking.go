// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/dreamstay/dreamstay/internal/models"
)

// CreateBooking inserts a booking and fills in its ID and timestamps.
func (r *Repository) CreateBooking(ctx context.Context, b *models.Booking) error {
	now := r.timestamp()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.CheckIn = b.CheckIn.UTC()
	b.CheckOut = b.CheckOut.UTC()
	if b.PaymentStatus == "" {
		b.PaymentStatus = models.PaymentPending
	}

	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO bookings (reference, user_id, name, email, phone, room_type, check_in, check_out,
		                       guests, phone_verified, payment_status, total_price, created_at, updated_at)
		 VALUES (:reference, :user_id, :name, :email, :phone, :room_type, :check_in, :check_out,
		         :guests, :phone_verified, :payment_status, :total_price, :created_at, :updated_at)`,
		b)
	if err != nil {
		return err
	}
	b.ID, err = res.LastInsertId()
	return err
}

// GetBookingByReference retrieves a booking by its public reference.
func (r *Repository) GetBookingByReference(ctx context.Context, ref string) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.GetContext(ctx, &b, `SELECT * FROM bookings WHERE reference = ?`, ref); err != nil {
		return nil, wrapError(err)
	}
	return &b, nil
}

// ListBookingsByUser returns a user's bookings, newest first.
func (r *Repository) ListBookingsByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.SelectContext(ctx, &bookings,
		`SELECT * FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	return bookings, err
}

// UpdateBookingPaymentStatus sets the payment status of a booking.
func (r *Repository) UpdateBookingPaymentStatus(ctx context.Context, ref, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET payment_status = ?, updated_at = ? WHERE reference = ?`,
		status, r.timestamp(), ref)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

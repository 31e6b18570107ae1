// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package booking prices and stores room reservations and records the
// mock payment.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"codeberg.org/dreamstay/dreamstay/internal/clock"
	"codeberg.org/dreamstay/dreamstay/internal/models"
	"codeberg.org/dreamstay/dreamstay/internal/repository"
	"codeberg.org/dreamstay/dreamstay/internal/services/sms"
	"github.com/google/uuid"
)

// DateLayout is the format of check-in and check-out dates.
const DateLayout = "2006-01-02"

// MaxGuests bounds the guests per booking.
const MaxGuests = 10

var (
	ErrUnknownRoom      = errors.New("unknown room type")
	ErrInvalidDates     = errors.New("check-out must be after check-in")
	ErrCheckInPast      = errors.New("check-in lies in the past")
	ErrInvalidGuests    = errors.New("invalid number of guests")
	ErrPhoneNotVerified = errors.New("phone number not verified")
	ErrNotFound         = errors.New("booking not found")
)

// Request is a booking as entered by a signed-in user.
type Request struct {
	UserID   int64
	Name     string
	Email    string
	Phone    string
	RoomType string
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

type Service struct {
	repo        *repository.Repository
	clock       clock.Clocker
	countryCode string
}

func NewService(repo *repository.Repository, clk clock.Clocker, countryCode string) *Service {
	return &Service{repo: repo, clock: clk, countryCode: countryCode}
}

// ParseDate parses a date in DateLayout as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// Nights returns whole nights between two dates, rounding partial days up.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}

// Quote returns nights × per-night price × guests.
func Quote(roomType string, checkIn, checkOut time.Time, guests int) (int64, error) {
	room, ok := LookupRoom(roomType)
	if !ok {
		return 0, ErrUnknownRoom
	}
	if !checkOut.After(checkIn) {
		return 0, ErrInvalidDates
	}
	if guests < 1 || guests > MaxGuests {
		return 0, ErrInvalidGuests
	}
	return int64(Nights(checkIn, checkOut)) * room.Price * int64(guests), nil
}

// Create stores a pending booking. verifiedPhone is the E.164 number
// confirmed by SMS in this session; the booking phone must match it.
func (s *Service) Create(ctx context.Context, req Request, verifiedPhone string) (*models.Booking, error) {
	phone := sms.NormalizePhone(req.Phone, s.countryCode)
	if verifiedPhone == "" || phone != verifiedPhone {
		return nil, ErrPhoneNotVerified
	}

	today := s.clock.Now().UTC().Truncate(24 * time.Hour)
	if req.CheckIn.Before(today) {
		return nil, ErrCheckInPast
	}

	total, err := Quote(req.RoomType, req.CheckIn, req.CheckOut, req.Guests)
	if err != nil {
		return nil, err
	}

	b := &models.Booking{
		Reference:     uuid.NewString(),
		UserID:        sql.NullInt64{Int64: req.UserID, Valid: req.UserID != 0},
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         phone,
		RoomType:      req.RoomType,
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		Guests:        req.Guests,
		PhoneVerified: true,
		PaymentStatus: models.PaymentPending,
		TotalPrice:    total,
	}

	if err := s.repo.CreateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	slog.Info("booking_created", "reference", b.Reference, "user_id", req.UserID, "room_type", b.RoomType, "total", total)
	return b, nil
}

// Get returns the booking if it belongs to userID.
func (s *Service) Get(ctx context.Context, ref string, userID int64) (*models.Booking, error) {
	b, err := s.repo.GetBookingByReference(ctx, ref)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	// Other users' bookings are reported as missing.
	if !b.UserID.Valid || b.UserID.Int64 != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

// Pay records the mock payment. Paying twice is a no-op.
func (s *Service) Pay(ctx context.Context, ref string, userID int64) (*models.Booking, error) {
	b, err := s.Get(ctx, ref, userID)
	if err != nil {
		return nil, err
	}
	if b.IsPaid() {
		return b, nil
	}

	if err := s.repo.UpdateBookingPaymentStatus(ctx, ref, models.PaymentPaid); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	b.PaymentStatus = models.PaymentPaid

	slog.Info("booking_paid", "reference", ref, "user_id", userID, "total", b.TotalPrice)
	return b, nil
}

// List returns the user's bookings.
func (s *Service) List(ctx context.Context, userID int64) ([]models.Booking, error) {
	return s.repo.ListBookingsByUser(ctx, userID)
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package otp issues and verifies one-time codes sent by email.
//
// A code moves through NONE -> PENDING -> {VERIFIED, EXPIRED}. Issuing again
// while PENDING replaces the code and restarts the window. Verified and
// expired codes are deleted; a wrong code leaves the record in place.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"strings"
	"time"

	"codeberg.org/dreamstay/dreamstay/internal/clock"
	"codeberg.org/dreamstay/dreamstay/internal/i18n"
	"codeberg.org/dreamstay/dreamstay/internal/models"
	"codeberg.org/dreamstay/dreamstay/internal/repository"
	"codeberg.org/dreamstay/dreamstay/internal/services/email"
)

const (
	// CodeLength is the number of digits in a code.
	CodeLength = 6
	// DefaultValidity is the window used when none is configured.
	DefaultValidity = time.Minute

	codeMin = 100000
	codeMax = 999999
)

var (
	ErrNotFound = errors.New("otp not found")
	ErrExpired  = errors.New("otp expired")
	ErrMismatch = errors.New("otp mismatch")
	ErrDelivery = errors.New("otp delivery failed")
)

// Purpose selects the wording of the mail carrying a code.
type Purpose string

const (
	PurposeSignup        Purpose = "signup"
	PurposePasswordReset Purpose = "password_reset"
)

// Store persists at most one code per email address.
type Store interface {
	UpsertEmailOTP(ctx context.Context, email, code string, createdAt time.Time) error
	GetEmailOTP(ctx context.Context, email string) (*models.EmailOTP, error)
	DeleteEmailOTP(ctx context.Context, email string) error
	DeleteEmailOTPsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Mailer delivers the code to its owner.
type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
}

// Service manages the email OTP lifecycle.
type Service struct {
	store  Store
	mailer Mailer
	clock  clock.Clocker
	window time.Duration
}

// NewService creates an OTP service. A non-positive window selects DefaultValidity.
func NewService(store Store, mailer Mailer, clk clock.Clocker, window time.Duration) *Service {
	if window <= 0 {
		window = DefaultValidity
	}
	return &Service{
		store:  store,
		mailer: mailer,
		clock:  clk,
		window: window,
	}
}

// Window returns the validity window.
func (s *Service) Window() time.Duration {
	return s.window
}

// Issue generates a fresh code for owner, replaces any pending one and mails it.
// A failed delivery is returned wrapped in ErrDelivery; the stored code stays
// so the owner can ask for a resend.
func (s *Service) Issue(ctx context.Context, owner string, purpose Purpose) error {
	owner = NormalizeOwner(owner)

	code, err := GenerateCode()
	if err != nil {
		return err
	}

	if err := s.store.UpsertEmailOTP(ctx, owner, code, s.clock.Now()); err != nil {
		return fmt.Errorf("storing otp: %w", err)
	}

	if err := s.mailer.Send(ctx, s.message(ctx, owner, code, purpose)); err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "otp_delivery_failed",
			slog.String("email", owner),
			slog.String("purpose", string(purpose)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	slog.LogAttrs(ctx, slog.LevelInfo, "otp_issued",
		slog.String("email", owner),
		slog.String("purpose", string(purpose)),
	)
	return nil
}

// Verify checks code against the pending record for owner. It returns nil
// when the code is accepted, ErrNotFound, ErrExpired or ErrMismatch otherwise.
func (s *Service) Verify(ctx context.Context, owner, code string) error {
	owner = NormalizeOwner(owner)

	rec, err := s.store.GetEmailOTP(ctx, owner)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("loading otp: %w", err)
	}

	if rec.IsExpired(s.clock.Now(), s.window) {
		if err := s.store.DeleteEmailOTP(ctx, owner); err != nil {
			return fmt.Errorf("deleting expired otp: %w", err)
		}
		slog.LogAttrs(ctx, slog.LevelInfo, "otp_verify_failed",
			slog.String("email", owner), slog.String("reason", "expired"))
		return ErrExpired
	}

	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(code)), []byte(rec.Code)) != 1 {
		slog.LogAttrs(ctx, slog.LevelInfo, "otp_verify_failed",
			slog.String("email", owner), slog.String("reason", "mismatch"))
		return ErrMismatch
	}

	if err := s.store.DeleteEmailOTP(ctx, owner); err != nil {
		return fmt.Errorf("deleting used otp: %w", err)
	}

	slog.LogAttrs(ctx, slog.LevelInfo, "otp_verified", slog.String("email", owner))
	return nil
}

// Sweep deletes every record older than the validity window. The cutoff is
// taken once, so records issued while the sweep runs survive.
func (s *Service) Sweep(ctx context.Context) error {
	cutoff := s.clock.Now().Add(-s.window)

	n, err := s.store.DeleteEmailOTPsCreatedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("sweeping otps: %w", err)
	}

	slog.LogAttrs(ctx, slog.LevelInfo, "otp_sweep",
		slog.Int64("deleted", n),
		slog.Time("cutoff", cutoff),
	)
	return nil
}

func (s *Service) message(ctx context.Context, owner, code string, purpose Purpose) email.Message {
	subjectID := "otp_email_subject_signup"
	if purpose == PurposePasswordReset {
		subjectID = "otp_email_subject_password_reset"
	}

	minutes := int(math.Ceil(s.window.Minutes()))
	return email.Message{
		To:      []string{owner},
		Subject: i18n.T(ctx, subjectID),
		Body:    i18n.TPluralData(ctx, "otp_email_body", minutes, map[string]any{"Code": code}),
	}
}

// GenerateCode returns a uniformly random code in [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", fmt.Errorf("generating otp: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()+codeMin), nil
}

// NormalizeOwner canonicalises an email address used as record key.
func NormalizeOwner(owner string) string {
	return strings.ToLower(strings.TrimSpace(owner))
}

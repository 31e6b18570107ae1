// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/dreamstay/dreamstay/internal/models"
)

// UpsertEmailOTP stores the code for email, replacing any pending one.
func (r *Repository) UpsertEmailOTP(ctx context.Context, email, code string, createdAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO email_otps (email, code, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (email) DO UPDATE SET code = excluded.code, created_at = excluded.created_at`,
		email, code, createdAt.UTC())
	return err
}

// GetEmailOTP retrieves the pending code for email.
func (r *Repository) GetEmailOTP(ctx context.Context, email string) (*models.EmailOTP, error) {
	var otp models.EmailOTP
	if err := r.db.GetContext(ctx, &otp, `SELECT * FROM email_otps WHERE email = ?`, email); err != nil {
		return nil, wrapError(err)
	}
	return &otp, nil
}

// DeleteEmailOTP deletes the pending code for email.
func (r *Repository) DeleteEmailOTP(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM email_otps WHERE email = ?`, email)
	return err
}

// DeleteEmailOTPsCreatedBefore deletes every code created strictly before cutoff.
func (r *Repository) DeleteEmailOTPsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM email_otps WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

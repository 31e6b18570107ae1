// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/dreamstay/dreamstay/internal/models"
)

// CreateLoginEvent records a successful login.
func (r *Repository) CreateLoginEvent(ctx context.Context, email, ip string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO login_events (email, ip_address, created_at) VALUES (?, ?, ?)`,
		email, ip, r.timestamp())
	return err
}

// ListLoginEvents returns the most recent login events for email.
func (r *Repository) ListLoginEvents(ctx context.Context, email string, limit int) ([]models.LoginEvent, error) {
	var events []models.LoginEvent
	err := r.db.SelectContext(ctx, &events,
		`SELECT * FROM login_events WHERE email = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		email, limit)
	return events, err
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/dreamstay/dreamstay/internal/models"
)

// CreateContactMessage stores a message sent through the contact form.
func (r *Repository) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	msg.CreatedAt = r.timestamp()
	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO contact_messages (name, email, message, created_at) VALUES (:name, :email, :message, :created_at)`,
		msg)
	if err != nil {
		return err
	}
	msg.ID, err = res.LastInsertId()
	return err
}

// ListContactMessages returns all contact messages, newest first.
func (r *Repository) ListContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	var msgs []models.ContactMessage
	err := r.db.SelectContext(ctx, &msgs, `SELECT * FROM contact_messages ORDER BY created_at DESC, id DESC`)
	return msgs, err
}

// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package repository holds the SQL queries for every persisted model.
package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/vinovest/sqlx"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// Repository wraps sqlx for database operations.
type Repository struct {
	db  *sqlx.DB
	now func() time.Time
}

// New creates a new Repository instance.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// DB returns the underlying connection for direct access.
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// timestamp returns the current time in UTC so stored values sort lexically.
func (r *Repository) timestamp() time.Time {
	return r.now().UTC()
}

// wrapError converts driver errors to repository errors.
func wrapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

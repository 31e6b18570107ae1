// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// EmailOTP is the single pending one-time code for an email address.
type EmailOTP struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Code      string    `db:"code" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ExpiresAt returns the last instant at which the code is still accepted.
func (o *EmailOTP) ExpiresAt(window time.Duration) time.Time {
	return o.CreatedAt.Add(window)
}

// IsExpired reports whether now lies strictly after the validity window.
func (o *EmailOTP) IsExpired(now time.Time, window time.Duration) bool {
	return now.After(o.ExpiresAt(window))
}

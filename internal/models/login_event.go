// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// LoginEvent records a successful login.
type LoginEvent struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

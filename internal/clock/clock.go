// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package clock lets services read the time through an interface so tests
// can pin it.
package clock

import "time"

// Clocker returns the current time.
type Clocker interface {
	Now() time.Time
}

// System reads the wall clock, normalised to UTC.
type System struct{}

// New returns the system clock.
func New() System {
	return System{}
}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package auth

import "time"

// Validity is the outcome of CheckValidity.
type Validity struct {
	// Valid is true when the session may be used.
	Valid bool

	// ShouldEvict is true when the caller should delete the stored session.
	ShouldEvict bool
}

// CheckValidity decides whether session is usable at now. It has no side
// effects; eviction is left to the caller.
func CheckValidity(session *Session, now time.Time) Validity {
	if session == nil || session.ID == "" {
		return Validity{}
	}
	if session.IsExpiredAt(now) {
		return Validity{ShouldEvict: true}
	}
	return Validity{Valid: true}
}

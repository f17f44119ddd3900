package models

import (
	"time"

	authmodels "domainwatch/internal/auth/models"
)

// Entry is one pending-registration code, keyed by normalized email.
// At most one live entry exists per email; issuing again overwrites it.
// Destroyed on successful verification or by the expiry sweep.
type Entry struct {
	Code      string
	Pending   authmodels.PendingRegistration
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry has passed its expiry at the given time.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

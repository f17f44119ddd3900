// Package store holds pending one-time codes.
//
// Error Contract:
// - Return sentinel.ErrNotFound when no entry exists for the email
// - Return sentinel.ErrUnavailable when a bounded store cannot accept writes
// - Return wrapped errors with context for infrastructure failures
package store

import (
	"context"
	"time"

	"domainwatch/internal/otp/models"
)

// Store is the ephemeral code persistence boundary. Keys are normalized
// emails; Put overwrites any prior entry for the same key.
type Store interface {
	Put(ctx context.Context, email string, entry *models.Entry) error
	Get(ctx context.Context, email string) (*models.Entry, error)
	Delete(ctx context.Context, email string) error
	// DeleteExpired removes every entry whose expiry has passed as of now.
	// The time is injected for testability. Backends with native TTL may
	// report zero.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

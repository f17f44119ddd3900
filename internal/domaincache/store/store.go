// Package store persists the shared registration cache.
//
// Error Contract:
// - Return sentinel.ErrNotFound when the requested entry does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
package store

import (
	"context"
	"time"

	"domainwatch/internal/domaincache/models"
)

// Store is the cache persistence boundary. Upsert must be atomic on the
// name key so racing writers degrade to last-write-wins.
type Store interface {
	Upsert(ctx context.Context, entry *models.Entry) error
	Find(ctx context.Context, name string) (*models.Entry, error)
	List(ctx context.Context) ([]*models.Entry, error)
	// MaxLastUpdated returns the newest LastUpdated across all entries.
	// ok is false when the cache is empty.
	MaxLastUpdated(ctx context.Context) (t time.Time, ok bool, err error)
}

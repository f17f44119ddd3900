// Package store persists the domains each user tracks.
package store

import (
	"context"

	"github.com/google/uuid"

	"domainwatch/internal/userdomain/models"
)

// Store is the persistence boundary for tracked domains.
type Store interface {
	// Create inserts a domain for a user and fills in the assigned ID.
	// It returns sentinel.ErrConflict when the user already tracks a
	// domain with the same name.
	Create(ctx context.Context, domain *models.Domain) error
	// ListByUser returns every domain tracked by the user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Domain, error)
	// Delete removes a domain owned by the user. It returns
	// sentinel.ErrNotFound when the domain does not exist or belongs to
	// someone else.
	Delete(ctx context.Context, id int64, userID uuid.UUID) error
}

// Package store persists user accounts and notification preferences.
package store

import (
	"context"

	"github.com/google/uuid"

	"domainwatch/internal/auth/models"
)

// Store is the persistence boundary for user accounts.
type Store interface {
	// Create inserts a new user. It returns sentinel.ErrConflict when a
	// user with the same email already exists.
	Create(ctx context.Context, user *models.User) error
	// FindByEmail returns sentinel.ErrNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByID returns sentinel.ErrNotFound when no user matches.
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// UpdatePreferences replaces the notification settings of a user.
	UpdatePreferences(ctx context.Context, id uuid.UUID, emailEnabled, smsEnabled bool, phone string) error
	// ListNotifiable returns every user with at least one notification
	// channel enabled.
	ListNotifiable(ctx context.Context) ([]*models.User, error)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the minimal schema needed for operation. Statements are
// idempotent so boot order never matters.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			email_notifications BOOLEAN NOT NULL DEFAULT TRUE,
			sms_notifications BOOLEAN NOT NULL DEFAULT FALSE,
			phone TEXT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS domains (
			id BIGSERIAL PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			created_date TEXT NULL,
			expiry_date TEXT NULL,
			registrar TEXT NULL,
			status TEXT NULL,
			full_details JSONB NOT NULL DEFAULT '{}'::jsonb,
			added_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_domains_user_id ON domains(user_id);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_domains_user_name ON domains(user_id, lower(name));`,
		`CREATE TABLE IF NOT EXISTS cached_domains (
			name TEXT PRIMARY KEY,
			created_date TEXT NOT NULL,
			expiry_date TEXT NOT NULL,
			registrar TEXT NOT NULL,
			status TEXT NOT NULL,
			full_details JSONB NOT NULL DEFAULT '{}'::jsonb,
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS audit_events (
			id BIGSERIAL PRIMARY KEY,
			occurred_at TIMESTAMPTZ NOT NULL,
			job TEXT NOT NULL,
			subject TEXT NOT NULL,
			action TEXT NOT NULL,
			outcome TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT ''
		);`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"domainwatch/internal/domaincache/models"
	"domainwatch/pkg/platform/sentinel"
)

// PostgresStore persists cache entries in the cached_domains table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed cache store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Upsert(ctx context.Context, entry *models.Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry is required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cached_domains (name, created_date, expiry_date, registrar, status, full_details, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO UPDATE SET
			created_date = EXCLUDED.created_date,
			expiry_date = EXCLUDED.expiry_date,
			registrar = EXCLUDED.registrar,
			status = EXCLUDED.status,
			full_details = EXCLUDED.full_details,
			last_updated = EXCLUDED.last_updated
	`, entry.Name, entry.CreatedDate, entry.ExpiryDate, entry.Registrar, entry.Status, entry.FullDetails, entry.LastUpdated)
	if err != nil {
		return fmt.Errorf("upsert cached domain %s: %w", entry.Name, err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, name string) (*models.Entry, error) {
	var entry models.Entry
	err := s.pool.QueryRow(ctx, `
		SELECT name, created_date, expiry_date, registrar, status, full_details, last_updated
		FROM cached_domains WHERE name = $1
	`, name).Scan(&entry.Name, &entry.CreatedDate, &entry.ExpiryDate, &entry.Registrar, &entry.Status, &entry.FullDetails, &entry.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cached domain %q: %w", name, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find cached domain %s: %w", name, err)
	}
	return &entry, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name, created_date, expiry_date, registrar, status, full_details, last_updated
		FROM cached_domains ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list cached domains: %w", err)
	}
	defer rows.Close()

	var out []*models.Entry
	for rows.Next() {
		var entry models.Entry
		if err := rows.Scan(&entry.Name, &entry.CreatedDate, &entry.ExpiryDate, &entry.Registrar, &entry.Status, &entry.FullDetails, &entry.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan cached domain: %w", err)
		}
		out = append(out, &entry)
	}
	return out, rows.Err()
}

func (s *PostgresStore) MaxLastUpdated(ctx context.Context) (time.Time, bool, error) {
	var max *time.Time
	err := s.pool.QueryRow(ctx, `SELECT MAX(last_updated) FROM cached_domains`).Scan(&max)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read cache freshness: %w", err)
	}
	if max == nil {
		return time.Time{}, false, nil
	}
	return *max, true, nil
}

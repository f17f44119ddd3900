package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"domainwatch/internal/userdomain/models"
	"domainwatch/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore persists tracked domains in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, domain *models.Domain) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO domains (user_id, name, created_date, expiry_date, registrar, status, full_details, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		domain.UserID, domain.Name, domain.CreatedDate, domain.ExpiryDate,
		domain.Registrar, domain.Status, domain.FullDetails, domain.AddedAt,
	)
	if err := row.Scan(&domain.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("inserting domain: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Domain, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, name, COALESCE(created_date, ''), COALESCE(expiry_date, ''),
		       COALESCE(registrar, ''), COALESCE(status, ''), full_details, added_at
		FROM domains
		WHERE user_id = $1
		ORDER BY id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing domains: %w", err)
	}
	defer rows.Close()

	var domains []*models.Domain
	for rows.Next() {
		var domain models.Domain
		if err := rows.Scan(&domain.ID, &domain.UserID, &domain.Name, &domain.CreatedDate,
			&domain.ExpiryDate, &domain.Registrar, &domain.Status, &domain.FullDetails, &domain.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning domain: %w", err)
		}
		domains = append(domains, &domain)
	}
	return domains, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM domains WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting domain: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"domainwatch/internal/auth/models"
	"domainwatch/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore persists users in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, email_notifications, sms_notifications, phone, created_at)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7, $8)`,
		user.ID, user.Name, user.Email, user.PasswordHash,
		user.EmailNotifications, user.SMSNotifications, user.Phone, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, `WHERE email = lower($1)`, email)
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findOne(ctx, `WHERE id = $1`, id)
}

func (s *PostgresStore) findOne(ctx context.Context, clause string, arg any) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, email_notifications, sms_notifications, COALESCE(phone, ''), created_at
		FROM users `+clause, arg)

	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.EmailNotifications, &user.SMSNotifications, &user.Phone, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &user, nil
}

func (s *PostgresStore) UpdatePreferences(ctx context.Context, id uuid.UUID, emailEnabled, smsEnabled bool, phone string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET email_notifications = $2, sms_notifications = $3, phone = $4
		WHERE id = $1`,
		id, emailEnabled, smsEnabled, phone,
	)
	if err != nil {
		return fmt.Errorf("updating preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListNotifiable(ctx context.Context) ([]*models.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, password_hash, email_notifications, sms_notifications, COALESCE(phone, ''), created_at
		FROM users
		WHERE email_notifications OR sms_notifications
		ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("listing notifiable users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
			&user.EmailNotifications, &user.SMSNotifications, &user.Phone, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

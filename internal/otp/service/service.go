// Package service implements the one-time-code flow gating account
// creation: issue, single-use verify, and periodic sweep.
package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	authmodels "domainwatch/internal/auth/models"
	"domainwatch/internal/otp/models"
	"domainwatch/internal/otp/store"
	"domainwatch/pkg/platform/sentinel"
	"domainwatch/pkg/requestcontext"
)

// TTL bounds how long an issued code stays verifiable.
const TTL = 10 * time.Minute

// CodeLength is the number of digits in a code; leading zeros count.
const CodeLength = 6

var codeSpace = big.NewInt(1_000_000)

// Service wraps the OTP store with code generation and verification rules.
type Service struct {
	store  store.Store
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTTL overrides the code lifetime, mainly for tests.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

func New(otpStore store.Store, opts ...Option) *Service {
	s := &Service{store: otpStore, ttl: TTL, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue generates a fresh 6-digit code for the email and stores it with the
// pending registration, overwriting any prior pending entry for that email.
func (s *Service) Issue(ctx context.Context, email string, pending authmodels.PendingRegistration) (string, error) {
	email = Normalize(email)
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}

	now := requestcontext.Now(ctx)
	entry := &models.Entry{
		Code:      code,
		Pending:   pending,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Put(ctx, email, entry); err != nil {
		return "", err
	}
	s.logger.Info("otp issued", "email", email, "expires_at", entry.ExpiresAt)
	return code, nil
}

// Verify consumes the code for the email. Exactly one of three failures is
// returned so callers can give the user an actionable message:
// ErrNotFound (no pending request), ErrExpired (entry deleted), or
// ErrMismatch (wrong code, entry kept). A match deletes the entry and
// returns the pending registration; the code is single-use.
func (s *Service) Verify(ctx context.Context, email, code string) (authmodels.PendingRegistration, error) {
	email = Normalize(email)
	entry, err := s.store.Get(ctx, email)
	if err != nil {
		return authmodels.PendingRegistration{}, err
	}

	if entry.Expired(requestcontext.Now(ctx)) {
		if err := s.store.Delete(ctx, email); err != nil {
			s.logger.Warn("failed to drop expired otp", "email", email, "error", err)
		}
		return authmodels.PendingRegistration{}, fmt.Errorf("otp for %q: %w", email, sentinel.ErrExpired)
	}
	if entry.Code != code {
		return authmodels.PendingRegistration{}, fmt.Errorf("otp for %q: %w", email, sentinel.ErrMismatch)
	}

	if err := s.store.Delete(ctx, email); err != nil {
		return authmodels.PendingRegistration{}, fmt.Errorf("consume otp for %s: %w", email, err)
	}
	return entry.Pending, nil
}

// Cancel drops the pending entry for an email. Callers roll back an issue
// when the verification email could not be delivered.
func (s *Service) Cancel(ctx context.Context, email string) error {
	return s.store.Delete(ctx, Normalize(email))
}

// Sweep removes every expired entry. Runs on a fixed interval so abandoned
// registration attempts cannot accumulate between verifications.
func (s *Service) Sweep(ctx context.Context) error {
	deleted, err := s.store.DeleteExpired(ctx, requestcontext.Now(ctx))
	if err != nil {
		return fmt.Errorf("sweep expired otps: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("swept expired otp entries", "deleted", deleted)
	}
	return nil
}

// Normalize lower-cases and trims an email so issue and verify agree on the
// key regardless of user input casing.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateCode draws a uniformly random 6-digit code, preserving leading
// zeros.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

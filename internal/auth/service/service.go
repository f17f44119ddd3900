// Package service implements registration, email verification and login.
// Registration is two-step: a verification code is emailed first, and the
// account is only created once the code is confirmed.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"domainwatch/internal/auth/metrics"
	"domainwatch/internal/auth/models"
	"domainwatch/internal/auth/store"
	"domainwatch/internal/jwttoken"
	otpservice "domainwatch/internal/otp/service"
	"domainwatch/pkg/platform/sentinel"
	"domainwatch/pkg/requestcontext"
)

// ErrInvalidInput reports a malformed registration or login request.
var ErrInvalidInput = errors.New("invalid input")

const minPasswordLength = 8

// CodeManager is the one-time-code boundary the service talks to.
type CodeManager interface {
	Issue(ctx context.Context, email string, pending models.PendingRegistration) (string, error)
	Verify(ctx context.Context, email, code string) (models.PendingRegistration, error)
	Cancel(ctx context.Context, email string) error
}

// EmailSender delivers the verification email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// Service coordinates users, codes and tokens.
type Service struct {
	users   store.Store
	codes   CodeManager
	email   EmailSender
	tokens  *jwttoken.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(users store.Store, codes CodeManager, email EmailSender, tokens *jwttoken.Service, opts ...Option) *Service {
	s := &Service{
		users:  users,
		codes:  codes,
		email:  email,
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestCode validates the registration details, stores them as pending
// and emails a verification code. A delivery failure rolls the pending
// entry back so the user can retry immediately.
func (s *Service) RequestCode(ctx context.Context, name, email, password string) error {
	email = otpservice.Normalize(email)
	if err := validateRegistration(name, email, password); err != nil {
		return err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return fmt.Errorf("user %q: %w", email, sentinel.ErrConflict)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return fmt.Errorf("checking existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	pending := models.PendingRegistration{Name: name, Email: email, Password: string(hash)}
	code, err := s.codes.Issue(ctx, email, pending)
	if err != nil {
		return fmt.Errorf("issuing verification code: %w", err)
	}

	body, err := verificationEmail(code, int(otpservice.TTL.Minutes()))
	if err != nil {
		return s.rollback(ctx, email, err)
	}
	if _, err := s.email.Send(ctx, email, "Verify Your Email - Domain Dashboard", body); err != nil {
		return s.rollback(ctx, email, fmt.Errorf("sending verification email: %w", err))
	}

	s.metrics.RecordCodeIssued()
	s.logger.Info("verification code sent", "email", email)
	return nil
}

func (s *Service) rollback(ctx context.Context, email string, cause error) error {
	if err := s.codes.Cancel(ctx, email); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.Warn("failed to roll back pending registration", "email", email, "error", err)
	}
	return cause
}

// VerifyCode consumes the code, creates the account and returns the user
// with a signed access token.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (*models.User, string, error) {
	email = otpservice.Normalize(email)
	pending, err := s.codes.Verify(ctx, email, code)
	if err != nil {
		return nil, "", err
	}

	now := requestcontext.Now(ctx)
	user := &models.User{
		ID:                 uuid.New(),
		Name:               pending.Name,
		Email:              pending.Email,
		PasswordHash:       pending.Password,
		EmailNotifications: true,
		CreatedAt:          now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, user.Email, now)
	if err != nil {
		return nil, "", err
	}

	s.metrics.RecordRegistration()
	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login checks the credentials and returns the user with a signed access
// token. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = otpservice.Normalize(email)
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.RecordLogin(false)
		return nil, "", fmt.Errorf("login for %q: %w", email, sentinel.ErrMismatch)
	}
	if err != nil {
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.RecordLogin(false)
		return nil, "", fmt.Errorf("login for %q: %w", email, sentinel.ErrMismatch)
	}

	token, err := s.tokens.Generate(user.ID, user.Email, requestcontext.Now(ctx))
	if err != nil {
		return nil, "", err
	}

	s.metrics.RecordLogin(true)
	return user, token, nil
}

// UpdatePreferences replaces the notification settings for a user.
func (s *Service) UpdatePreferences(ctx context.Context, id uuid.UUID, emailEnabled, smsEnabled bool, phone string) error {
	if smsEnabled && phone == "" {
		return fmt.Errorf("%w: phone number required when sms notifications are enabled", ErrInvalidInput)
	}
	return s.users.UpdatePreferences(ctx, id, emailEnabled, smsEnabled, phone)
}

// User fetches a user by id.
func (s *Service) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func validateRegistration(name, email, password string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !govalidator.IsEmail(email) {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	return nil
}

// Package service manages the per-user domain portfolio. Adding a domain
// enriches it with registration details so the dashboard can show expiry
// information without a follow-up lookup.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	cachemodels "domainwatch/internal/domaincache/models"
	"domainwatch/internal/userdomain/models"
	"domainwatch/internal/userdomain/store"
	"domainwatch/pkg/requestcontext"
)

// ErrInvalidDomain reports a name that is not a plausible DNS name.
var ErrInvalidDomain = errors.New("invalid domain name")

// RegistrationResolver answers single-domain registration queries,
// cache-first.
type RegistrationResolver interface {
	Resolve(ctx context.Context, domain string) (*cachemodels.Entry, error)
}

// Service coordinates the tracked-domain store and the registration
// resolver.
type Service struct {
	domains  store.Store
	resolver RegistrationResolver
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(domains store.Store, resolver RegistrationResolver, opts ...Option) *Service {
	s := &Service{domains: domains, resolver: resolver, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add tracks a new domain for the user. Registration details are filled
// in from the resolver when available; a resolver failure degrades to an
// entry with unknown details rather than rejecting the add.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, name string) (*models.Domain, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	domain := &models.Domain{
		UserID:      userID,
		Name:        name,
		CreatedDate: cachemodels.UnknownDate,
		ExpiryDate:  cachemodels.UnknownDate,
		Registrar:   cachemodels.StatusUnknown,
		Status:      cachemodels.StatusUnknown,
		FullDetails: []byte(`{}`),
		AddedAt:     requestcontext.Now(ctx),
	}

	if entry, err := s.resolver.Resolve(ctx, name); err != nil {
		s.logger.Warn("could not resolve registration details, tracking anyway", "domain", name, "error", err)
	} else {
		domain.CreatedDate = entry.CreatedDate
		domain.ExpiryDate = entry.ExpiryDate
		domain.Registrar = entry.Registrar
		domain.Status = entry.Status
		if len(entry.FullDetails) > 0 {
			domain.FullDetails = entry.FullDetails
		}
	}

	if err := s.domains.Create(ctx, domain); err != nil {
		return nil, fmt.Errorf("tracking domain %s: %w", name, err)
	}
	s.logger.Info("domain tracked", "user_id", userID, "domain", name)
	return domain, nil
}

// List returns the user's tracked domains, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*models.Domain, error) {
	return s.domains.ListByUser(ctx, userID)
}

// Remove stops tracking a domain owned by the user.
func (s *Service) Remove(ctx context.Context, id int64, userID uuid.UUID) error {
	if err := s.domains.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("domain untracked", "user_id", userID, "domain_id", id)
	return nil
}

// NormalizeName lower-cases a domain name and validates it is a DNS name
// with at least one dot.
func NormalizeName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "www.")
	if name == "" || !strings.Contains(name, ".") || !govalidator.IsDNSName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, name)
	}
	return name, nil
}

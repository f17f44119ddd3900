package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"domainwatch/internal/userdomain/models"
	"domainwatch/pkg/platform/sentinel"
)

// InMemoryStore keeps tracked domains in memory. Used in tests and when
// no database is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	domains map[int64]*models.Domain
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, domains: make(map[int64]*models.Domain)}
}

func (s *InMemoryStore) Create(_ context.Context, domain *models.Domain) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.ToLower(domain.Name)
	for _, existing := range s.domains {
		if existing.UserID == domain.UserID && strings.ToLower(existing.Name) == name {
			return sentinel.ErrConflict
		}
	}

	domain.ID = s.nextID
	s.nextID++
	stored := *domain
	s.domains[stored.ID] = &stored
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	domains := make([]*models.Domain, 0)
	for _, domain := range s.domains {
		if domain.UserID != userID {
			continue
		}
		clone := *domain
		domains = append(domains, &clone)
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i].ID > domains[j].ID })
	return domains, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	domain, ok := s.domains[id]
	if !ok || domain.UserID != userID {
		return sentinel.ErrNotFound
	}
	delete(s.domains, id)
	return nil
}

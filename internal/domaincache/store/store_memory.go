package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"domainwatch/internal/domaincache/models"
	"domainwatch/pkg/platform/sentinel"
)

// InMemoryStore keeps cache entries in a map for tests/dev.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*models.Entry
}

// NewInMemory constructs an empty in-memory cache store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]*models.Entry)}
}

func (s *InMemoryStore) Upsert(_ context.Context, entry *models.Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *entry
	s.entries[entry.Name] = &clone
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, name string) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if entry, ok := s.entries[name]; ok {
		clone := *entry
		return &clone, nil
	}
	return nil, fmt.Errorf("cached domain %q: %w", name, sentinel.ErrNotFound)
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		clone := *entry
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) MaxLastUpdated(_ context.Context) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var max time.Time
	found := false
	for _, entry := range s.entries {
		if !found || entry.LastUpdated.After(max) {
			max = entry.LastUpdated
			found = true
		}
	}
	return max, found, nil
}

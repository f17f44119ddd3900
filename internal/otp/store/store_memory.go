package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"domainwatch/internal/otp/models"
	"domainwatch/pkg/platform/sentinel"
)

// DefaultCapacity bounds the in-memory store so registration spam cannot
// grow it without limit.
const DefaultCapacity = 10000

// InMemoryStore keeps pending codes in a capacity-bounded map.
type InMemoryStore struct {
	mu       sync.Mutex
	entries  map[string]*models.Entry
	capacity int
}

// NewInMemory constructs an empty in-memory OTP store. A non-positive
// capacity falls back to DefaultCapacity.
func NewInMemory(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryStore{
		entries:  make(map[string]*models.Entry),
		capacity: capacity,
	}
}

func (s *InMemoryStore) Put(_ context.Context, email string, entry *models.Entry) error {
	if entry == nil {
		return fmt.Errorf("otp entry is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[email]; !exists && len(s.entries) >= s.capacity {
		// Reclaim expired slots before refusing; only a store full of
		// live entries rejects the write.
		s.deleteExpiredLocked(entry.IssuedAt)
		if len(s.entries) >= s.capacity {
			return fmt.Errorf("otp store at capacity (%d): %w", s.capacity, sentinel.ErrUnavailable)
		}
	}

	clone := *entry
	s.entries[email] = &clone
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, email string) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[email]; ok {
		clone := *entry
		return &clone, nil
	}
	return nil, fmt.Errorf("otp for %q: %w", email, sentinel.ErrNotFound)
}

func (s *InMemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}

func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteExpiredLocked(now), nil
}

func (s *InMemoryStore) deleteExpiredLocked(now time.Time) int {
	deleted := 0
	for email, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, email)
			deleted++
		}
	}
	return deleted
}

package audit

import (
	"context"
	"sync"
)

// Store is the audit persistence boundary.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// InMemoryStore keeps a bounded window of recent events for tests/dev.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
	limit  int
}

const defaultWindow = 1000

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{limit: defaultWindow}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if len(s.events) > s.limit {
		s.events = s.events[len(s.events)-s.limit:]
	}
	return nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]Event, limit)
	copy(out, s.events[len(s.events)-limit:])
	return out, nil
}

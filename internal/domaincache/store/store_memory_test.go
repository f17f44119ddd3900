package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"domainwatch/internal/domaincache/models"
	"domainwatch/pkg/platform/sentinel"
)

type CacheStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *CacheStoreSuite) SetupTest() {
	s.store = NewInMemory()
}

func TestCacheStoreSuite(t *testing.T) {
	suite.Run(t, new(CacheStoreSuite))
}

func (s *CacheStoreSuite) TestUpsertIsIdempotentOnName() {
	first := &models.Entry{
		Name:        "a.com",
		CreatedDate: "2001-01-01",
		ExpiryDate:  "2030-01-01",
		Registrar:   "First Registrar",
		Status:      models.StatusActive,
		LastUpdated: time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC),
	}
	second := &models.Entry{
		Name:        "a.com",
		CreatedDate: "2001-01-01",
		ExpiryDate:  "2031-06-01",
		Registrar:   "Second Registrar",
		Status:      models.StatusActive,
		LastUpdated: time.Date(2026, 8, 2, 8, 0, 0, 0, time.UTC),
	}

	s.Require().NoError(s.store.Upsert(context.Background(), first))
	s.Require().NoError(s.store.Upsert(context.Background(), second))

	entries, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("Second Registrar", entries[0].Registrar)
	s.Equal("2031-06-01", entries[0].ExpiryDate)
	s.Equal(second.LastUpdated, entries[0].LastUpdated)
}

func (s *CacheStoreSuite) TestFind() {
	s.Run("returns stored entry when found", func() {
		entry := &models.Entry{Name: "github.com", Status: models.StatusActive, LastUpdated: time.Now()}
		s.Require().NoError(s.store.Upsert(context.Background(), entry))

		found, err := s.store.Find(context.Background(), "github.com")
		s.Require().NoError(err)
		s.Equal(models.StatusActive, found.Status)
	})

	s.Run("returns ErrNotFound for unknown domain", func() {
		_, err := s.store.Find(context.Background(), "missing.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *CacheStoreSuite) TestMaxLastUpdated() {
	s.Run("reports absent cache", func() {
		_, ok, err := s.store.MaxLastUpdated(context.Background())
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("returns the newest timestamp", func() {
		older := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
		newer := older.Add(3 * time.Hour)
		s.Require().NoError(s.store.Upsert(context.Background(), &models.Entry{Name: "a.com", LastUpdated: older}))
		s.Require().NoError(s.store.Upsert(context.Background(), &models.Entry{Name: "b.com", LastUpdated: newer}))

		max, ok, err := s.store.MaxLastUpdated(context.Background())
		s.Require().NoError(err)
		s.True(ok)
		s.Equal(newer, max)
	})
}

func (s *CacheStoreSuite) TestListIsSortedByName() {
	for _, name := range []string{"c.com", "a.com", "b.com"} {
		s.Require().NoError(s.store.Upsert(context.Background(), &models.Entry{Name: name, LastUpdated: time.Now()}))
	}
	entries, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("a.com", entries[0].Name)
	s.Equal("c.com", entries[2].Name)
}

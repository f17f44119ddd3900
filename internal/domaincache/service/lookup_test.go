package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"domainwatch/internal/domaincache/models"
	"domainwatch/internal/domaincache/store"
	"domainwatch/internal/whois"
	"domainwatch/pkg/platform/sentinel"
	"domainwatch/pkg/requestcontext"
)

func TestResolve(t *testing.T) {
	now := time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	t.Run("fresh cache entry short-circuits upstream", func(t *testing.T) {
		cache := store.NewInMemory()
		require.NoError(t, cache.Upsert(ctx, &models.Entry{
			Name: "a.com", ExpiryDate: "2027-01-01", LastUpdated: now.Add(-time.Hour),
		}))
		client := &fakeLookup{}
		l := NewLookup(client, cache)

		entry, err := l.Resolve(ctx, "a.com")
		require.NoError(t, err)
		require.Equal(t, "2027-01-01", entry.ExpiryDate)
		require.Empty(t, client.calls)
	})

	t.Run("stale cache entry goes upstream and is re-cached", func(t *testing.T) {
		cache := store.NewInMemory()
		require.NoError(t, cache.Upsert(ctx, &models.Entry{
			Name: "a.com", ExpiryDate: "2026-09-01", LastUpdated: now.Add(-25 * time.Hour),
		}))
		client := &fakeLookup{records: map[string]whois.Record{"a.com": registeredRecord("2027-06-01")}}
		l := NewLookup(client, cache)

		entry, err := l.Resolve(ctx, "a.com")
		require.NoError(t, err)
		require.Equal(t, "2027-06-01", entry.ExpiryDate)
		require.Equal(t, []string{"a.com"}, client.calls)

		cached, err := cache.Find(ctx, "a.com")
		require.NoError(t, err)
		require.Equal(t, "2027-06-01", cached.ExpiryDate)
		require.Equal(t, now, cached.LastUpdated)
	})

	t.Run("cache miss goes upstream", func(t *testing.T) {
		client := &fakeLookup{records: map[string]whois.Record{"b.com": registeredRecord("2027-06-01")}}
		l := NewLookup(client, store.NewInMemory())

		entry, err := l.Resolve(ctx, "b.com")
		require.NoError(t, err)
		require.Equal(t, models.StatusActive, entry.Status)
	})

	t.Run("no client serves stale cache", func(t *testing.T) {
		cache := store.NewInMemory()
		require.NoError(t, cache.Upsert(ctx, &models.Entry{
			Name: "a.com", ExpiryDate: "2026-09-01", LastUpdated: now.Add(-48 * time.Hour),
		}))
		l := NewLookup(nil, cache)

		entry, err := l.Resolve(ctx, "a.com")
		require.NoError(t, err)
		require.Equal(t, "2026-09-01", entry.ExpiryDate)
	})

	t.Run("no client and no cache entry", func(t *testing.T) {
		l := NewLookup(nil, store.NewInMemory())
		_, err := l.Resolve(ctx, "a.com")
		require.ErrorIs(t, err, sentinel.ErrNotConfigured)
	})

	t.Run("upstream failure serves stale cache", func(t *testing.T) {
		cache := store.NewInMemory()
		require.NoError(t, cache.Upsert(ctx, &models.Entry{
			Name: "a.com", ExpiryDate: "2026-09-01", LastUpdated: now.Add(-48 * time.Hour),
		}))
		client := &fakeLookup{err: errors.New("upstream down")}
		l := NewLookup(client, cache)

		entry, err := l.Resolve(ctx, "a.com")
		require.NoError(t, err)
		require.Equal(t, "2026-09-01", entry.ExpiryDate)
	})

	t.Run("unregistered domain is not found", func(t *testing.T) {
		client := &fakeLookup{records: map[string]whois.Record{
			"free.com": {Status: 0, DomainRegistered: "no"},
		}}
		l := NewLookup(client, store.NewInMemory())

		_, err := l.Resolve(ctx, "free.com")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

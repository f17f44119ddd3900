package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"domainwatch/internal/domaincache/models"
	"domainwatch/internal/domaincache/store"
	"domainwatch/internal/whois"
	"domainwatch/pkg/platform/sentinel"
	"domainwatch/pkg/requestcontext"
)

// Lookup serves single-domain registration queries cache-first: a cached
// entry younger than the freshness window is returned as-is, anything
// else goes to the upstream provider and lands back in the cache.
type Lookup struct {
	client whois.Client
	store  store.Store
	logger *slog.Logger
}

type LookupOption func(*Lookup)

func WithLookupLogger(logger *slog.Logger) LookupOption {
	return func(l *Lookup) { l.logger = logger }
}

func NewLookup(client whois.Client, cacheStore store.Store, opts ...LookupOption) *Lookup {
	l := &Lookup{client: client, store: cacheStore, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve returns the registration record for one domain. Without a
// configured client it can only serve whatever the cache holds.
func (l *Lookup) Resolve(ctx context.Context, domain string) (*models.Entry, error) {
	now := requestcontext.Now(ctx)

	cached, err := l.store.Find(ctx, domain)
	if err == nil && now.Sub(cached.LastUpdated) < FreshnessWindow {
		return cached, nil
	}
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, fmt.Errorf("reading cache for %s: %w", domain, err)
	}

	if l.client == nil {
		if cached != nil {
			// Stale beats nothing when no upstream is available.
			return cached, nil
		}
		return nil, fmt.Errorf("lookup for %s: %w", domain, sentinel.ErrNotConfigured)
	}

	record, lookupErr := l.client.Lookup(ctx, domain)
	if lookupErr != nil {
		if cached != nil {
			l.logger.Warn("upstream lookup failed, serving stale cache entry", "domain", domain, "error", lookupErr)
			return cached, nil
		}
		return nil, fmt.Errorf("lookup for %s: %w", domain, lookupErr)
	}
	if !record.Registered() {
		return nil, fmt.Errorf("lookup for %s: domain not registered: %w", domain, sentinel.ErrNotFound)
	}

	entry := entryFromRecord(domain, record, now)
	if err := l.store.Upsert(ctx, entry); err != nil {
		l.logger.Warn("failed to cache lookup result", "domain", domain, "error", err)
	}
	return entry, nil
}

// Package service implements the freshness-gated bulk refresh of the shared
// registration cache.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"domainwatch/internal/domaincache/metrics"
	"domainwatch/internal/domaincache/models"
	"domainwatch/internal/domaincache/store"
	"domainwatch/internal/whois"
	"domainwatch/pkg/requestcontext"
)

// FreshnessWindow is the staleness threshold controlling whether a bulk
// refresh is due.
const FreshnessWindow = 24 * time.Hour

// defaultPacing is the inter-request delay that keeps the batch inside the
// lookup provider's rate limit.
const defaultPacing = 2 * time.Second

// Result aggregates one refresh run. Timestamp marks completion in RFC 3339.
type Result struct {
	SuccessCount int    `json:"successCount"`
	FailCount    int    `json:"failCount"`
	Timestamp    string `json:"timestamp"`
}

// Recorder receives the outcome of each completed refresh run.
type Recorder interface {
	RecordRefresh(ctx context.Context, successCount, failCount int, err error)
}

// Refresher iterates the pooled-domain allowlist sequentially, fetching each
// registration record and upserting it into the cache store. A nil lookup
// client (no API key configured) disables refreshing entirely.
type Refresher struct {
	client    whois.Client
	store     store.Store
	allowlist []string
	pacing    time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
	recorder  Recorder
}

type Option func(*Refresher)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Refresher) { r.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Refresher) { r.metrics = m }
}

func WithRecorder(rec Recorder) Option {
	return func(r *Refresher) { r.recorder = rec }
}

// WithPacing overrides the inter-request delay, mainly for tests.
func WithPacing(d time.Duration) Option {
	return func(r *Refresher) { r.pacing = d }
}

func New(client whois.Client, cacheStore store.Store, allowlist []string, opts ...Option) *Refresher {
	r := &Refresher{
		client:    client,
		store:     cacheStore,
		allowlist: allowlist,
		pacing:    defaultPacing,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Allowlist returns the configured pooled-domain set.
func (r *Refresher) Allowlist() []string {
	return r.allowlist
}

// Enabled reports whether a lookup client is configured.
func (r *Refresher) Enabled() bool {
	return r.client != nil
}

// NeedsRefresh reports whether the cache is absent or stale. A store read
// error propagates so the caller can skip the cycle rather than assume
// freshness.
func (r *Refresher) NeedsRefresh(ctx context.Context) (bool, error) {
	max, ok, err := r.store.MaxLastUpdated(ctx)
	if err != nil {
		return false, fmt.Errorf("check cache freshness: %w", err)
	}
	if !ok {
		return true, nil
	}
	return requestcontext.Now(ctx).Sub(max) >= FreshnessWindow, nil
}

// RefreshIfStale runs the freshness gate and, when due, the full refresh.
// It is the entry point for both the daily trigger and boot warm-up.
func (r *Refresher) RefreshIfStale(ctx context.Context) error {
	if !r.Enabled() {
		r.logger.Warn("lookup API key not configured, cache refresh disabled")
		return nil
	}

	stale, err := r.NeedsRefresh(ctx)
	if err != nil {
		// Conservative: a freshness read failure skips the cycle rather
		// than risking a redundant 50-domain batch against bad state.
		r.logger.Error("cache freshness check failed, skipping refresh cycle", "error", err)
		return err
	}
	if !stale {
		r.logger.Info("cache is still fresh, skipping refresh")
		r.metrics.RecordSkip()
		return nil
	}

	_, err = r.RefreshAll(ctx)
	return err
}

// RefreshAll fetches every allowlisted domain strictly sequentially with a
// fixed pacing delay between requests. Per-item failures are counted and
// logged, never aborting the batch. Re-running with the same upstream data
// is idempotent: the upsert overwrites all fields keyed by name.
func (r *Refresher) RefreshAll(ctx context.Context) (Result, error) {
	r.logger.Info("starting domain cache refresh", "domains", len(r.allowlist))

	var result Result
	for i, domain := range r.allowlist {
		if i > 0 {
			select {
			case <-ctx.Done():
				result.Timestamp = time.Now().UTC().Format(time.RFC3339)
				if r.recorder != nil {
					r.recorder.RecordRefresh(ctx, result.SuccessCount, result.FailCount, ctx.Err())
				}
				return result, ctx.Err()
			case <-time.After(r.pacing):
			}
		}

		if err := r.refreshOne(ctx, domain); err != nil {
			result.FailCount++
			r.logger.Warn("failed to refresh domain", "domain", domain, "error", err)
			continue
		}
		result.SuccessCount++
		r.logger.Debug("cached domain", "domain", domain)
	}

	result.Timestamp = time.Now().UTC().Format(time.RFC3339)
	if r.recorder != nil {
		r.recorder.RecordRefresh(ctx, result.SuccessCount, result.FailCount, nil)
	}
	r.metrics.RecordRun(result.SuccessCount, result.FailCount)
	r.logger.Info("cache refresh completed",
		"success", result.SuccessCount, "failed", result.FailCount, "timestamp", result.Timestamp)
	return result, nil
}

func (r *Refresher) refreshOne(ctx context.Context, domain string) error {
	record, err := r.client.Lookup(ctx, domain)
	if err != nil {
		return err
	}
	if !record.Registered() {
		return fmt.Errorf("lookup returned status %d (registered=%q)", record.Status, record.DomainRegistered)
	}

	entry := entryFromRecord(domain, record, time.Now().UTC())
	if err := r.store.Upsert(ctx, entry); err != nil {
		return err
	}
	return nil
}

// entryFromRecord maps a successful lookup onto a cache row. Missing dates
// become the UnknownDate sentinel; any domain-status flag means Active.
func entryFromRecord(domain string, record whois.Record, now time.Time) *models.Entry {
	entry := &models.Entry{
		Name:        domain,
		CreatedDate: record.CreateDate,
		ExpiryDate:  record.ExpiryDate,
		Registrar:   record.Registrar.RegistrarName,
		Status:      models.StatusUnknown,
		FullDetails: record.Raw,
		LastUpdated: now,
	}
	if entry.CreatedDate == "" {
		entry.CreatedDate = models.UnknownDate
	}
	if entry.ExpiryDate == "" {
		entry.ExpiryDate = models.UnknownDate
	}
	if entry.Registrar == "" {
		entry.Registrar = models.StatusUnknown
	}
	if len(record.DomainStatus) > 0 {
		entry.Status = models.StatusActive
	}
	return entry
}

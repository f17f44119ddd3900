// Package alerts computes per-user expiry alerts and dispatches them over
// the user's enabled notification channels.
package alerts

import (
	"context"
	"log/slog"
	"math"
	"time"

	"domainwatch/internal/alerts/models"
	"domainwatch/internal/certprobe"
	cachemodels "domainwatch/internal/domaincache/models"
	domainmodels "domainwatch/internal/userdomain/models"
	"domainwatch/pkg/requestcontext"
)

// ExpiryWindow is the horizon inside which a domain or certificate warrants
// an alert.
const ExpiryWindow = 30

// Prober abstracts the certificate prober for the aggregator.
type Prober interface {
	Probe(ctx context.Context, domain string) (*certprobe.Snapshot, error)
}

// Aggregator walks a user's domain set and collects everything expiring
// inside the window, excluding pooled (allowlisted) domains.
type Aggregator struct {
	prober Prober
	logger *slog.Logger
}

type AggregatorOption func(*Aggregator)

func WithAggregatorLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) { a.logger = logger }
}

func NewAggregator(prober Prober, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{prober: prober, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CollectAlerts computes the alert set for one user's domains. Probe
// failures are swallowed (counted by the prober's metrics): monitoring must
// not break on a single unreachable host.
func (a *Aggregator) CollectAlerts(ctx context.Context, domains []*domainmodels.Domain, allowlist map[string]struct{}) models.Alerts {
	now := requestcontext.Now(ctx)
	var out models.Alerts

	for _, domain := range domains {
		if _, pooled := allowlist[domain.Name]; pooled {
			continue
		}

		if item, ok := domainExpiryItem(domain, now); ok {
			out.ExpiringDomains = append(out.ExpiringDomains, item)
		}

		snap, err := a.prober.Probe(ctx, domain.Name)
		if err != nil {
			continue
		}
		if snap.DaysRemaining > 0 && snap.DaysRemaining <= ExpiryWindow {
			out.ExpiringCertificates = append(out.ExpiringCertificates, models.Item{
				DomainName:    domain.Name,
				DaysRemaining: snap.DaysRemaining,
				ExpiryDate:    snap.ValidTo.Format("2006-01-02"),
				Kind:          models.KindCertificateExpiry,
			})
		}
	}
	return out
}

// domainExpiryItem applies the registration-expiry window. A domain
// expiring exactly today (diffDays <= 0) is excluded.
func domainExpiryItem(domain *domainmodels.Domain, now time.Time) (models.Item, bool) {
	if domain.ExpiryDate == "" || domain.ExpiryDate == cachemodels.UnknownDate {
		return models.Item{}, false
	}
	expiry, ok := parseDate(domain.ExpiryDate)
	if !ok {
		return models.Item{}, false
	}
	diffDays := int(math.Ceil(expiry.Sub(now).Hours() / 24))
	if diffDays <= 0 || diffDays > ExpiryWindow {
		return models.Item{}, false
	}
	return models.Item{
		DomainName:    domain.Name,
		DaysRemaining: diffDays,
		ExpiryDate:    domain.ExpiryDate,
		Kind:          models.KindDomainExpiry,
	}, true
}

// parseDate accepts the date shapes the lookup service emits.
func parseDate(value string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RefreshRunsTotal      prometheus.Counter
	RefreshSkippedTotal   prometheus.Counter
	DomainsRefreshedTotal prometheus.Counter
	DomainsFailedTotal    prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		RefreshRunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainwatch_cache_refresh_runs_total",
			Help: "Total number of bulk cache refresh runs executed",
		}),
		RefreshSkippedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainwatch_cache_refresh_skipped_total",
			Help: "Total number of refresh triggers skipped because the cache was still fresh",
		}),
		DomainsRefreshedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainwatch_cache_domains_refreshed_total",
			Help: "Total number of domains successfully refreshed into the cache",
		}),
		DomainsFailedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainwatch_cache_domains_failed_total",
			Help: "Total number of domains that failed to refresh",
		}),
	}
}

func (m *Metrics) RecordRun(successCount, failCount int) {
	if m == nil {
		return
	}
	m.RefreshRunsTotal.Inc()
	m.DomainsRefreshedTotal.Add(float64(successCount))
	m.DomainsFailedTotal.Add(float64(failCount))
}

func (m *Metrics) RecordSkip() {
	if m == nil {
		return
	}
	m.RefreshSkippedTotal.Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics surfaces probe failures that the alert pipeline otherwise
// swallows, so unreachable hosts stay observable.
type Metrics struct {
	ProbeFailuresTotal prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ProbeFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainwatch_certprobe_failures_total",
			Help: "Total number of TLS certificate probes that failed (timeout, handshake error, or no peer certificate)",
		}),
	}
}

func (m *Metrics) RecordFailure() {
	if m == nil {
		return
	}
	m.ProbeFailuresTotal.Inc()
}

// Package metrics provides Prometheus collectors for the auth module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RegistrationsTotal prometheus.Counter
	CodesIssuedTotal   prometheus.Counter
	LoginsTotal        *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		RegistrationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainwatch_auth_registrations_total",
			Help: "Accounts created after successful code verification",
		}),
		CodesIssuedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainwatch_auth_verification_codes_issued_total",
			Help: "Verification codes issued for pending registrations",
		}),
		LoginsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "domainwatch_auth_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) RecordRegistration() {
	if m == nil {
		return
	}
	m.RegistrationsTotal.Inc()
}

func (m *Metrics) RecordCodeIssued() {
	if m == nil {
		return
	}
	m.CodesIssuedTotal.Inc()
}

func (m *Metrics) RecordLogin(ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

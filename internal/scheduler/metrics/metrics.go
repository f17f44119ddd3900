// Package metrics provides Prometheus collectors for scheduled jobs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	JobRunsTotal    *prometheus.CounterVec
	JobSkippedTotal *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "domainwatch_scheduler_job_runs_total",
			Help: "Completed scheduled job runs by job name and outcome",
		}, []string{"job", "outcome"}),
		JobSkippedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "domainwatch_scheduler_job_skipped_total",
			Help: "Scheduled job triggers skipped because the previous run was still in flight",
		}, []string{"job"}),
	}
}

func (m *Metrics) RecordRun(job string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.JobRunsTotal.WithLabelValues(job, outcome).Inc()
}

func (m *Metrics) RecordSkip(job string) {
	if m == nil {
		return
	}
	m.JobSkippedTotal.WithLabelValues(job).Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	NotificationsSent   *prometheus.CounterVec
	NotificationsFailed *prometheus.CounterVec
	UsersNotifiedTotal  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		NotificationsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "domainwatch_notifications_sent_total",
			Help: "Total notifications delivered, labeled by channel",
		}, []string{"channel"}),
		NotificationsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "domainwatch_notifications_failed_total",
			Help: "Total notification sends that failed, labeled by channel",
		}, []string{"channel"}),
		UsersNotifiedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainwatch_notification_users_total",
			Help: "Total users who had at least one alert dispatched in a cycle",
		}),
	}
}

func (m *Metrics) RecordSend(channel string, ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.NotificationsSent.WithLabelValues(channel).Inc()
		return
	}
	m.NotificationsFailed.WithLabelValues(channel).Inc()
}

func (m *Metrics) RecordUserNotified() {
	if m == nil {
		return
	}
	m.UsersNotifiedTotal.Inc()
}

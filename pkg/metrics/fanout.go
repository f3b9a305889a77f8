package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FanoutMetrics records notification fan-out outcomes.
type FanoutMetrics struct {
	duration *prometheus.HistogramVec
	created  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewFanoutMetrics registers the fan-out metrics on the provided registerer.
func NewFanoutMetrics(reg prometheus.Registerer) *FanoutMetrics {
	if reg == nil {
		return &FanoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notification_dispatch_duration_seconds",
		Help:    "Duration of notification dispatch runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Notifications persisted per type.",
	}, []string{"type"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_fanout_failures_total",
		Help: "Notification dispatch runs that failed per type.",
	}, []string{"type"})
	reg.MustRegister(duration, created, failures)
	return &FanoutMetrics{
		duration: duration,
		created:  created,
		failures: failures,
	}
}

// ObserveDuration records the duration of a dispatch run for a notification type.
func (m *FanoutMetrics) ObserveDuration(notificationType string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(notificationType)).Observe(duration.Seconds())
}

// IncCreated counts persisted notifications for a type.
func (m *FanoutMetrics) IncCreated(notificationType string, n int) {
	if m == nil || m.created == nil || n <= 0 {
		return
	}
	m.created.WithLabelValues(normalizeLabel(notificationType)).Add(float64(n))
}

// IncFailure counts a failed dispatch run for a type.
func (m *FanoutMetrics) IncFailure(notificationType string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(notificationType)).Inc()
}

func normalizeLabel(name string) string {
	if name == "" {
		return "unknown"
	}
	return name
}

package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metricsCollector counts auth outcomes and guard decisions. One
// counter vector per concern keeps the cardinality fixed.
type metricsCollector struct {
	authEvents  *prometheus.CounterVec
	guardDenied *prometheus.CounterVec
}

// newMetricsCollector builds the collectors and registers them with
// reg. A nil registerer leaves the collectors unregistered, which
// tests use to avoid duplicate registration across instances.
func newMetricsCollector(reg prometheus.Registerer) *metricsCollector {
	m := &metricsCollector{
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "versalles",
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Authentication and session events by type.",
		}, []string{"event"}),
		guardDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "versalles",
			Subsystem: "guard",
			Name:      "denied_total",
			Help:      "Requests the route guard turned away.",
		}, []string{"reason"}),
	}
	if reg != nil {
		reg.MustRegister(m.authEvents, m.guardDenied)
	}
	return m
}

// NewMetrics registers the API collectors with reg and returns them
// for use with WithMetrics.
func NewMetrics(reg prometheus.Registerer) *metricsCollector {
	return newMetricsCollector(reg)
}

func (m *metricsCollector) recordEvent(event AuditEvent) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(string(event)).Inc()
}

func (m *metricsCollector) recordDenied(reason string) {
	if m == nil {
		return
	}
	m.guardDenied.WithLabelValues(reason).Inc()
}

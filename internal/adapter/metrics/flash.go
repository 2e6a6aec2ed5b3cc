package metrics

import "github.com/prometheus/client_golang/prometheus"

// FlashMetrics tracks notices raised into and consumed from sessions.
type FlashMetrics struct {
	Raised        *prometheus.CounterVec
	Drained       prometheus.Counter
	SessionErrors *prometheus.CounterVec
}

func NewFlashMetrics(reg prometheus.Registerer) *FlashMetrics {
	m := &FlashMetrics{
		Raised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flash",
			Name:      "raised_total",
			Help:      "Total number of flash messages added to sessions, by category.",
		}, []string{"category"}),
		Drained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flash",
			Name:      "drained_total",
			Help:      "Total number of flash messages consumed by a rendered page.",
		}),
		SessionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "errors_total",
			Help:      "Total number of session cookie failures, by operation.",
		}, []string{"operation"}),
	}

	reg.MustRegister(m.Raised, m.Drained, m.SessionErrors)
	return m
}

// The recorders below are no-ops on a nil receiver so handlers can run
// without a registry.

func (m *FlashMetrics) RecordRaised(category string) {
	if m == nil {
		return
	}
	m.Raised.WithLabelValues(category).Inc()
}

func (m *FlashMetrics) RecordDrained(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Drained.Add(float64(n))
}

// RecordSessionError counts a failed "load" or "save" of the session cookie.
func (m *FlashMetrics) RecordSessionError(operation string) {
	if m == nil {
		return
	}
	m.SessionErrors.WithLabelValues(operation).Inc()
}

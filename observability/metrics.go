package observability

import (
	"chat-live/domain/event"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chat_live"

// LiveMetrics exposes the state of the real-time distribution subsystem.
// A nil *LiveMetrics is valid and records nothing.
type LiveMetrics struct {
	activeListeners  prometheus.Gauge
	published        *prometheus.CounterVec
	delivered        *prometheus.CounterVec
	deliveryFailures *prometheus.CounterVec
	heartbeatSweeps  prometheus.Counter
	replacements     prometheus.Counter
}

func NewLiveMetrics(reg prometheus.Registerer) *LiveMetrics {
	m := &LiveMetrics{
		activeListeners: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_listeners",
			Help:      "Number of identities holding a registered stream handle.",
		}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Events stamped with a sequence id, by type.",
		}, []string{"type"}),
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_delivered_total",
			Help:      "Events handed over to a stream handle, by type.",
		}, []string{"type"}),
		deliveryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_failures_total",
			Help:      "Per-recipient delivery failures, by type.",
		}, []string{"type"}),
		heartbeatSweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "heartbeat_sweeps_total",
			Help:      "Completed keep-alive sweeps.",
		}),
		replacements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handle_replacements_total",
			Help:      "Registrations that superseded a live handle of the same identity.",
		}),
	}
	reg.MustRegister(
		m.activeListeners,
		m.published,
		m.delivered,
		m.deliveryFailures,
		m.heartbeatSweeps,
		m.replacements,
	)
	return m
}

func (m *LiveMetrics) SetActiveListeners(n int) {
	if m == nil {
		return
	}
	m.activeListeners.Set(float64(n))
}

func (m *LiveMetrics) ObserveFanout(t event.Type, delivered, failed int) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(string(t)).Inc()
	m.delivered.WithLabelValues(string(t)).Add(float64(delivered))
	m.deliveryFailures.WithLabelValues(string(t)).Add(float64(failed))
	if t == event.KeepAliveType {
		m.heartbeatSweeps.Inc()
	}
}

func (m *LiveMetrics) IncrReplacements() {
	if m == nil {
		return
	}
	m.replacements.Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the notification engine. All methods are
// safe to call on a nil *Metrics.
type Metrics struct {
	// Events by type and outcome: ignored, rejected, failed, dispatched, recorded
	EventsTotal *prometheus.CounterVec

	// Candidates dropped by pipeline stage
	SuppressedTotal *prometheus.CounterVec

	// Delivery attempts by event type and result: delivered, failed
	DeliveriesTotal *prometheus.CounterVec

	ResolveLatency  prometheus.Histogram
	DispatchLatency prometheus.Histogram
}

// New registers the notification metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "docnotify_events_total",
			Help: "Inbound events by type and processing outcome",
		}, []string{"event", "outcome"}),

		SuppressedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "docnotify_recipients_suppressed_total",
			Help: "Candidate recipients removed, by pipeline stage",
		}, []string{"stage"}),

		DeliveriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "docnotify_deliveries_total",
			Help: "Delivery calls by event type and result",
		}, []string{"event", "result"}),

		ResolveLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "docnotify_resolve_duration_seconds",
			Help:    "Duration of recipient resolution including store queries",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		DispatchLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "docnotify_dispatch_duration_seconds",
			Help:    "Duration of full event handling including delivery fan-out",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

func (m *Metrics) IncEvent(event, outcome string) {
	if m != nil {
		m.EventsTotal.WithLabelValues(event, outcome).Inc()
	}
}

func (m *Metrics) AddSuppressed(stage string, n int) {
	if m != nil && n > 0 {
		m.SuppressedTotal.WithLabelValues(stage).Add(float64(n))
	}
}

func (m *Metrics) IncDelivery(event, result string) {
	if m != nil {
		m.DeliveriesTotal.WithLabelValues(event, result).Inc()
	}
}

func (m *Metrics) ObserveResolveLatency(d time.Duration) {
	if m != nil {
		m.ResolveLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveDispatchLatency(d time.Duration) {
	if m != nil {
		m.DispatchLatency.Observe(d.Seconds())
	}
}

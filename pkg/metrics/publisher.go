package metrics

import "github.com/prometheus/client_golang/prometheus"

// PublisherMetrics tracks outbox publishing progress.
type PublisherMetrics struct {
	published prometheus.Counter
	failed    prometheus.Counter
	pending   prometheus.Gauge
}

// NewPublisherMetrics registers the outbox publisher metrics.
func NewPublisherMetrics(reg prometheus.Registerer) *PublisherMetrics {
	if reg == nil {
		return &PublisherMetrics{}
	}
	published := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_published_total",
		Help: "Outbox events successfully published.",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_failed_total",
		Help: "Outbox publish attempts that errored.",
	})
	pending := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "outbox_events_pending",
		Help: "Outbox events awaiting publication at last poll.",
	})
	reg.MustRegister(published, failed, pending)
	return &PublisherMetrics{published: published, failed: failed, pending: pending}
}

// IncPublished increments the published counter.
func (p *PublisherMetrics) IncPublished() {
	if p == nil || p.published == nil {
		return
	}
	p.published.Inc()
}

// IncFailed increments the failure counter.
func (p *PublisherMetrics) IncFailed() {
	if p == nil || p.failed == nil {
		return
	}
	p.failed.Inc()
}

// SetPending records the pending backlog size.
func (p *PublisherMetrics) SetPending(n int) {
	if p == nil || p.pending == nil {
		return
	}
	p.pending.Set(float64(n))
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the livestream layer.
type Metrics struct {
	registry              *prometheus.Registry
	signalsPublishedTotal prometheus.Counter
	signalPollsTotal      prometheus.Counter
	streamsStartedTotal   prometheus.Counter
	streamsEndedTotal     prometheus.Counter
	streamsExpiredTotal   prometheus.Counter
	openMailboxes         prometheus.Gauge
}

// New creates and registers the metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	signalsPublishedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rfm_signals_published_total",
		Help: "Total number of signaling messages accepted by the relay",
	})
	signalPollsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rfm_signal_polls_total",
		Help: "Total number of signaling poll requests served",
	})
	streamsStartedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rfm_streams_started_total",
		Help: "Total number of livestream sessions created",
	})
	streamsEndedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rfm_streams_ended_total",
		Help: "Total number of livestream sessions ended by the host",
	})
	streamsExpiredTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rfm_streams_expired_total",
		Help: "Total number of livestream sessions ended by expiry",
	})
	openMailboxes := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rfm_open_mailboxes",
		Help: "Number of signaling mailboxes currently held in memory",
	})

	registry.MustRegister(
		signalsPublishedTotal,
		signalPollsTotal,
		streamsStartedTotal,
		streamsEndedTotal,
		streamsExpiredTotal,
		openMailboxes,
	)

	return &Metrics{
		registry:              registry,
		signalsPublishedTotal: signalsPublishedTotal,
		signalPollsTotal:      signalPollsTotal,
		streamsStartedTotal:   streamsStartedTotal,
		streamsEndedTotal:     streamsEndedTotal,
		streamsExpiredTotal:   streamsExpiredTotal,
		openMailboxes:         openMailboxes,
	}
}

func (m *Metrics) IncSignalsPublished() { m.signalsPublishedTotal.Inc() }
func (m *Metrics) IncSignalPolls()      { m.signalPollsTotal.Inc() }
func (m *Metrics) IncStreamsStarted()   { m.streamsStartedTotal.Inc() }
func (m *Metrics) IncStreamsEnded()     { m.streamsEndedTotal.Inc() }
func (m *Metrics) IncStreamsExpired()   { m.streamsExpiredTotal.Inc() }

// SetOpenMailboxes sets the mailbox gauge.
func (m *Metrics) SetOpenMailboxes(n int) { m.openMailboxes.Set(float64(n)) }

// Handler returns an http.Handler that serves the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "caro"

// Metrics - prometheus collectors for the room registry and the websocket transport.
type Metrics struct {
	registry *prometheus.Registry

	roomsActive      prometheus.Gauge
	connections      prometheus.Gauge
	messagesReceived *prometheus.CounterVec
	movesRejected    prometheus.Counter
	sendFailures     prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	that := &Metrics{
		registry: registry,
		roomsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms_active",
			Help:      "Number of rooms currently registered.",
		}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_open",
			Help:      "Number of open websocket connections.",
		}),
		messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Inbound websocket messages by type.",
		}, []string{"type"}),
		movesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_rejected_total",
			Help:      "Moves dropped by the game engine.",
		}),
		sendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_failures_total",
			Help:      "Events that could not be queued for a connection.",
		}),
	}

	registry.MustRegister(
		that.roomsActive,
		that.connections,
		that.messagesReceived,
		that.movesRejected,
		that.sendFailures,
	)

	return that
}

func (that *Metrics) RoomsActive(count int) {
	that.roomsActive.Set(float64(count))
}

func (that *Metrics) MoveRejected() {
	that.movesRejected.Inc()
}

func (that *Metrics) SendFailed() {
	that.sendFailures.Inc()
}

// MessageReceived - counts an inbound message by type.
func (that *Metrics) MessageReceived(messageType string) {
	that.messagesReceived.WithLabelValues(messageType).Inc()
}

func (that *Metrics) ConnectionOpened() {
	that.connections.Inc()
}

func (that *Metrics) ConnectionClosed() {
	that.connections.Dec()
}

// Handler - exposes the registry at /metrics.
func (that *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(that.registry, promhttp.HandlerOpts{Registry: that.registry})
}

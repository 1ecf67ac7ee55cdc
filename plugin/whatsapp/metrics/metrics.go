// Package metrics exports Prometheus metrics for the webhook and the
// conversation engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter registers and serves the bot's metrics on its own registry.
type Exporter struct {
	registry *prometheus.Registry

	webhooksReceived prometheus.Counter
	parseFailures    prometheus.Counter
	messagesHandled  prometheus.Counter
	repliesSent      prometheus.Counter
	ordersConfirmed  prometheus.Counter
	ordersCancelled  prometheus.Counter

	handleLatency prometheus.Histogram
}

// NewExporter creates the exporter and registers all collectors.
func NewExporter() *Exporter {
	registry := prometheus.NewRegistry()
	e := &Exporter{registry: registry}

	e.webhooksReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vendobot",
		Subsystem: "webhook",
		Name:      "received_total",
		Help:      "Webhook requests received",
	})
	e.parseFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vendobot",
		Subsystem: "webhook",
		Name:      "parse_failures_total",
		Help:      "Webhook payloads ignored as malformed or message-less",
	})
	e.messagesHandled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vendobot",
		Subsystem: "dialog",
		Name:      "messages_handled_total",
		Help:      "Messages run through the conversation controller",
	})
	e.repliesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vendobot",
		Subsystem: "dialog",
		Name:      "replies_sent_total",
		Help:      "Replies handed to the outbound channel",
	})
	e.ordersConfirmed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vendobot",
		Subsystem: "orders",
		Name:      "confirmed_total",
		Help:      "Orders confirmed by customers",
	})
	e.ordersCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vendobot",
		Subsystem: "orders",
		Name:      "cancelled_total",
		Help:      "Orders cancelled by customers",
	})
	e.handleLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "vendobot",
		Subsystem: "dialog",
		Name:      "handle_latency_seconds",
		Help:      "Conversation controller latency per message",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	registry.MustRegister(
		e.webhooksReceived, e.parseFailures, e.messagesHandled,
		e.repliesSent, e.ordersConfirmed, e.ordersCancelled, e.handleLatency,
	)
	return e
}

func (e *Exporter) WebhookReceived() { e.webhooksReceived.Inc() }
func (e *Exporter) ParseFailure()    { e.parseFailures.Inc() }
func (e *Exporter) MessageHandled()  { e.messagesHandled.Inc() }
func (e *Exporter) ReplySent()       { e.repliesSent.Inc() }
func (e *Exporter) OrderConfirmed()  { e.ordersConfirmed.Inc() }
func (e *Exporter) OrderCancelled()  { e.ordersCancelled.Inc() }

// ObserveHandle records one controller invocation's duration.
func (e *Exporter) ObserveHandle(d time.Duration) {
	e.handleLatency.Observe(d.Seconds())
}

// Handler serves the registry in Prometheus exposition format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

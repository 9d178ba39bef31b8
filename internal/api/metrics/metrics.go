// Package metrics defines the custom Prometheus metrics of the relay and of
// the backend client. echoprometheus covers plain HTTP server metrics.
//
// Everything registers with the default registry at init, so /metrics serves
// it without further wiring.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roleta"

// ── Webhook metrics ───────────────────────────────────────────────────────────

// WebhooksTotal counts Stripe deliveries by outcome.
// Label:
//   - result: "forwarded", "duplicate", "rejected" (bad request) or "failed" (backend error)
var WebhooksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhooks_total",
		Help:      "Total number of Stripe webhook deliveries, by outcome.",
	},
	[]string{"result"},
)

// WebhookForwardDuration measures the backend round trip of a forwarded event.
var WebhookForwardDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "webhook_forward_duration_seconds",
		Help:      "Duration of webhook forwarding to the backend.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Backend probe ─────────────────────────────────────────────────────────────

// BackendUp is 1 when the last health probe succeeded.
var BackendUp = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backend_up",
		Help:      "Whether the last backend health probe succeeded (1) or not (0).",
	},
)

// BackendProbesTotal counts health probes.
// Label:
//   - result: "up" or "down"
var BackendProbesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_probes_total",
		Help:      "Total number of backend health probes, by result.",
	},
	[]string{"result"},
)

// ── Client transport ──────────────────────────────────────────────────────────

var clientRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Total number of requests sent to the backend, by status code and method.",
	},
	[]string{"code", "method"},
)

var clientRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Latency of requests sent to the backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

var clientInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "in_flight_requests",
		Help:      "Requests to the backend currently in flight.",
	},
)

// InstrumentTransport wraps rt (http.DefaultTransport when nil) with the
// client request metrics.
func InstrumentTransport(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperInFlight(clientInFlight,
		promhttp.InstrumentRoundTripperCounter(clientRequestsTotal,
			promhttp.InstrumentRoundTripperDuration(clientRequestDuration, rt),
		),
	)
}

// SetBackendUp records a probe outcome.
func SetBackendUp(up bool) {
	if up {
		BackendUp.Set(1)
		BackendProbesTotal.WithLabelValues("up").Inc()
		return
	}
	BackendUp.Set(0)
	BackendProbesTotal.WithLabelValues("down").Inc()
}

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "passbridge"

// Provider call outcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeProviderError = "provider_error"
	OutcomeTransport     = "transport_error"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	providerRequests *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	webhooks         *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Inbound HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Inbound HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Outbound loyalty provider calls by action and outcome.",
		}, []string{"action", "outcome"}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Outbound loyalty provider latency by action.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_total",
			Help:      "Verified inbound webhooks by event type and whether a handler ran.",
		}, []string{"type", "handled"}),
	}

	reg.MustRegister(m.httpRequests, m.httpDuration, m.providerRequests, m.providerDuration, m.webhooks)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) ObserveProvider(action, outcome string, d time.Duration) {
	m.providerRequests.WithLabelValues(action, outcome).Inc()
	m.providerDuration.WithLabelValues(action).Observe(d.Seconds())
}

func (m *Metrics) ObserveWebhook(eventType string, handled bool) {
	m.webhooks.WithLabelValues(eventType, strconv.FormatBool(handled)).Inc()
}

// Package metrics exposes Ganymede's ingestion counters to Prometheus.
//
// The collector mirrors what the usage store accumulates (requests, tokens,
// cost, and latency per provider and model) so operators can watch
// ingestion live between analysis runs.
package metrics

import (
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/usage"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector registers and records the ingestion metrics.
//
// Metrics:
//   - mercator_ganymede_requests_total: request count by provider and model
//   - mercator_ganymede_tokens_total: token count by provider, model, type
//   - mercator_ganymede_cost_usd_total: cost in USD by provider and model
//   - mercator_ganymede_request_latency_seconds: latency histogram
type Collector struct {
	registry *prometheus.Registry

	requestsTotal  *prometheus.CounterVec
	tokensTotal    *prometheus.CounterVec
	costTotal      *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewCollector creates a collector and registers its metrics with the
// provided registry. If registry is nil, a new registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of upstream LLM requests metered",
			},
			[]string{"provider", "model"},
		),

		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "tokens_total",
				Help:      "Total number of tokens metered",
			},
			[]string{"provider", "model", "type"},
		),

		costTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cost_usd_total",
				Help:      "Total cost in USD by provider and model",
			},
			[]string{"provider", "model"},
		),

		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_latency_seconds",
				Help:      "Upstream request latency in seconds",
				// Buckets sized for LLM round trips: 100ms to ~80s
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
			[]string{"provider", "model"},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.tokensTotal,
		c.costTotal,
		c.requestLatency,
	)

	return c
}

// RecordSample records one completed request's usage figures. It applies
// the same coercions as the usage store: negative fields count as zero.
func (c *Collector) RecordSample(provider, model string, sample usage.Sample, latencyMs int64) {
	c.requestsTotal.WithLabelValues(provider, model).Inc()

	if sample.PromptTokens > 0 {
		c.tokensTotal.WithLabelValues(provider, model, "prompt").Add(float64(sample.PromptTokens))
	}
	if sample.CompletionTokens > 0 {
		c.tokensTotal.WithLabelValues(provider, model, "completion").Add(float64(sample.CompletionTokens))
	}
	if sample.CostUSD > 0 {
		c.costTotal.WithLabelValues(provider, model).Add(sample.CostUSD)
	}
	if latencyMs > 0 {
		c.requestLatency.WithLabelValues(provider, model).Observe(float64(latencyMs) / 1000)
	}
}

// Registry returns the Prometheus registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

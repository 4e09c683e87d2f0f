// Package metrics provides the process metrics registry. The registry is
// constructed once at startup and handed to the components that record into
// it; there are no package-level collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector the application records.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequestDuration tracks REST API request duration in seconds.
	HTTPRequestDuration *prometheus.HistogramVec
	// HTTPRequestsTotal counts HTTP requests.
	HTTPRequestsTotal *prometheus.CounterVec
	// DBQueryDuration tracks database query duration in seconds.
	// Labels must stay low-cardinality: operation name and outcome only.
	DBQueryDuration *prometheus.HistogramVec
	// RateLimitHits counts requests that passed the rate limiter.
	RateLimitHits *prometheus.CounterVec
	// RateLimitBlocks counts requests rejected by the rate limiter.
	RateLimitBlocks *prometheus.CounterVec
	// RateLimitBans counts clients banned after repeated violations.
	RateLimitBans *prometheus.CounterVec
}

// New creates a Metrics with all collectors registered on a fresh registry.
// prefix namespaces every metric name.
func New(prefix string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: prefix + "http_request_duration_seconds",
			Help: "REST API request duration in seconds",
		}, []string{"method", "route", "status_code", "success"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status_code", "success"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: prefix + "database_query_duration_seconds",
			Help: "Database query duration in seconds",
		}, []string{"operation", "success"}),
		RateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		}, []string{"route", "client"}),
		RateLimitBlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "rate_limit_blocks_total",
			Help: "Total number of requests blocked by rate limit",
		}, []string{"route", "client"}),
		RateLimitBans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "rate_limit_bans_total",
			Help: "Total number of clients banned by rate limit",
		}, []string{"client"}),
	}

	m.registry.MustRegister(
		m.HTTPRequestDuration,
		m.HTTPRequestsTotal,
		m.DBQueryDuration,
		m.RateLimitHits,
		m.RateLimitBlocks,
		m.RateLimitBans,
	)
	return m
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// StartQueryTimer starts a database query timer. The returned stop function
// records the elapsed time labeled with the operation and its outcome, and
// must be called on every exit path.
func (m *Metrics) StartQueryTimer() func(operation string, success bool) {
	start := time.Now()
	return func(operation string, success bool) {
		m.DBQueryDuration.
			WithLabelValues(operation, strconv.FormatBool(success)).
			Observe(time.Since(start).Seconds())
	}
}

// Package observability provides structured-logging helpers and Prometheus
// metrics for the matching service.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	membersIndexed prometheus.Counter
	membersSkipped prometheus.Counter
	membersFailed  prometheus.Counter
}

// NewMetrics creates and registers the service's collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillmatch_http_requests_total",
			Help: "HTTP requests by method, route, and status class.",
		}, []string{"method", "route", "status_class"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skillmatch_http_request_duration_seconds",
			Help:    "HTTP request duration by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		membersIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillmatch_reindex_members_indexed_total",
			Help: "Members whose embedding was recomputed and written.",
		}),
		membersSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillmatch_reindex_members_skipped_total",
			Help: "Members skipped for having no searchable content.",
		}),
		membersFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillmatch_reindex_members_failed_total",
			Help: "Members whose encode or persist step failed.",
		}),
	}

	reg.MustRegister(m.httpRequests, m.httpDuration, m.membersIndexed, m.membersSkipped, m.membersFailed)

	return m
}

// RecordRequest records one HTTP request.
func (m *Metrics) RecordRequest(method, route, statusClass string, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, statusClass).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordMemberIndexed counts one successful embedding write.
func (m *Metrics) RecordMemberIndexed() { m.membersIndexed.Inc() }

// RecordMemberSkipped counts one member skipped for empty content.
func (m *Metrics) RecordMemberSkipped() { m.membersSkipped.Inc() }

// RecordMemberFailed counts one member whose encode or write failed.
func (m *Metrics) RecordMemberFailed() { m.membersFailed.Inc() }

// Handler returns the /metrics endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

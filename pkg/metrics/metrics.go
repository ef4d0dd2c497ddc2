package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	WriteOperationsTotal *prometheus.CounterVec
	WriteDuration        *prometheus.HistogramVec
	ConflictsTotal       *prometheus.CounterVec

	QueryDuration *prometheus.HistogramVec
	QueryRows     *prometheus.HistogramVec

	AuditEntriesTotal  prometheus.Counter
	AuditBufferDropped prometheus.Counter
}

// NewRegistry returns a registry preloaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func NewCollector(serviceName string, reg prometheus.Registerer) *Collector {
	ns := strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(serviceName)
	f := promauto.With(reg)

	return &Collector{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		WriteOperationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "write",
			Name:      "operations_total",
			Help:      "Write operations by operation and outcome (ok or error kind).",
		}, []string{"operation", "outcome"}),

		WriteDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "write",
			Name:      "duration_seconds",
			Help:      "Write operation latency including the commit.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"operation"}),

		ConflictsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "write",
			Name:      "conflicts_total",
			Help:      "Integrity conflicts by operation, kind and constraint.",
		}, []string{"operation", "kind", "constraint"}),

		QueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Read query latency distribution for pages and reports.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"operation", "kind"}),

		QueryRows: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "db",
			Name:      "query_rows",
			Help:      "Rows returned per read query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 6),
		}, []string{"operation", "kind"}),

		AuditEntriesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "audit",
			Name:      "entries_total",
			Help:      "Total audit log entries written.",
		}),

		AuditBufferDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "audit",
			Name:      "buffer_dropped_total",
			Help:      "Audit entries dropped due to full buffer. Alert if non-zero.",
		}),
	}
}

func (c *Collector) ObserveWrite(operation, outcome string, d time.Duration) {
	c.WriteOperationsTotal.WithLabelValues(operation, outcome).Inc()
	c.WriteDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (c *Collector) IncConflict(operation, kind, constraint string) {
	c.ConflictsTotal.WithLabelValues(operation, kind, constraint).Inc()
}

func (c *Collector) ObserveQuery(operation, kind string, rows int, d time.Duration) {
	c.QueryDuration.WithLabelValues(operation, kind).Observe(d.Seconds())
	c.QueryRows.WithLabelValues(operation, kind).Observe(float64(rows))
}

func (c *Collector) IncAuditWritten() { c.AuditEntriesTotal.Inc() }

func (c *Collector) IncAuditDropped() { c.AuditBufferDropped.Inc() }

func MetricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

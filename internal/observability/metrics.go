package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private Prometheus registry. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	reportDuration    prometheus.Histogram
	reportRowsScanned prometheus.Histogram
	recordsLoaded     prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		reportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_report_build_duration_seconds",
			Help:    "Time spent filtering and aggregating one report.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		reportRowsScanned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_report_filtered_rows",
			Help:    "Rows left after the date-range filter.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		recordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_records_loaded",
			Help: "Order line items loaded from the CSV file.",
		}),
	}

	registry.MustRegister(m.httpRequests)
	registry.MustRegister(m.httpDuration)
	registry.MustRegister(m.reportDuration)
	registry.MustRegister(m.reportRowsScanned)
	registry.MustRegister(m.recordsLoaded)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordsLoaded() prometheus.Gauge {
	return m.recordsLoaded
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if status == http.StatusNotFound {
		path = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) ObserveReport(d time.Duration, rows int) {
	if m == nil {
		return
	}
	m.reportDuration.Observe(d.Seconds())
	m.reportRowsScanned.Observe(float64(rows))
}

func (m *Metrics) SetRecordsLoaded(n int) {
	if m == nil {
		return
	}
	m.recordsLoaded.Set(float64(n))
}

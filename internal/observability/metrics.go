// Package observability holds the Prometheus registry and the metric
// families the reporting service emits.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the application.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	reportRuns      *prometheus.CounterVec
	reportDuration  *prometheus.HistogramVec
	upstreamFetch   *prometheus.HistogramVec
	voucherPages    prometheus.Counter
}

// NewMetrics initialises the registry and the base metric families.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_report_runs_total",
		Help: "Report computations by report kind and outcome.",
	}, []string{"report", "status"})
	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_report_duration_seconds",
		Help:    "End-to-end report computation duration, fetch included.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"report"})
	fetch := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_upstream_fetch_duration_seconds",
		Help:    "Duration of upstream snapshot fetches by source.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	pages := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_voucher_pages_fetched_total",
		Help: "Voucher pages pulled from the voucher service.",
	})
	registry.MustRegister(requests, duration, runs, runDuration, fetch, pages)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		reportRuns:      runs,
		reportDuration:  runDuration,
		upstreamFetch:   fetch,
		voucherPages:    pages,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ReportRun records the outcome and duration of one report computation.
func (m *Metrics) ReportRun(report, status string, seconds float64) {
	if m == nil {
		return
	}
	m.reportRuns.WithLabelValues(report, status).Inc()
	m.reportDuration.WithLabelValues(report).Observe(seconds)
}

// UpstreamFetch records the duration of one upstream snapshot fetch.
func (m *Metrics) UpstreamFetch(source string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamFetch.WithLabelValues(source).Observe(seconds)
}

// VoucherPage counts one fetched voucher page.
func (m *Metrics) VoucherPage() {
	if m == nil {
		return
	}
	m.voucherPages.Inc()
}

// Registerer exposes the registry for additional metric families.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}

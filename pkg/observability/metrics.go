package observability

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Account metrics
	AuthAttemptsTotal    *prometheus.CounterVec
	SessionsRevokedTotal prometheus.Counter

	// Storage metrics
	StoreErrorsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botdock_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "botdock_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AuthAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botdock_auth_attempts_total",
				Help: "Registration, login and logout attempts by outcome",
			},
			[]string{"operation", "outcome"},
		),
		SessionsRevokedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "botdock_sessions_revoked_total",
				Help: "Sessions deleted by logout",
			},
		),
		StoreErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botdock_store_errors_total",
				Help: "Failed storage operations",
			},
			[]string{"operation"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthAttemptsTotal,
		m.SessionsRevokedTotal,
		m.StoreErrorsTotal,
	)

	return m
}

// AuthAttempt counts one account operation outcome
func (m *Metrics) AuthAttempt(operation, outcome string) {
	m.AuthAttemptsTotal.WithLabelValues(operation, outcome).Inc()
}

// SessionRevoked counts a deleted session
func (m *Metrics) SessionRevoked() {
	m.SessionsRevokedTotal.Inc()
}

// StoreError counts a failed storage operation
func (m *Metrics) StoreError(operation string) {
	m.StoreErrorsTotal.WithLabelValues(operation).Inc()
}

// RegisterDBStats exposes connection pool gauges read from db at scrape time
func (m *Metrics) RegisterDBStats(db *sql.DB) {
	gauge := func(name, help string, value func(sql.DBStats) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: name, Help: help},
			func() float64 { return value(db.Stats()) },
		)
	}

	m.registry.MustRegister(
		gauge("botdock_db_connections_active", "Number of in-use database connections",
			func(s sql.DBStats) float64 { return float64(s.InUse) }),
		gauge("botdock_db_connections_idle", "Number of idle database connections",
			func(s sql.DBStats) float64 { return float64(s.Idle) }),
		gauge("botdock_db_connections_wait_count", "Total number of connections waited for",
			func(s sql.DBStats) float64 { return float64(s.WaitCount) }),
		gauge("botdock_db_connections_wait_duration_seconds", "Total time spent waiting for connections",
			func(s sql.DBStats) float64 { return s.WaitDuration.Seconds() }),
	)
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics.
// Installed with mux.Router.Use, the path label is the route template so
// bot ids do not explode cardinality.
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			path := routePath(r)
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

func routePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(serveMux *http.ServeMux, registry *prometheus.Registry) {
	serveMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

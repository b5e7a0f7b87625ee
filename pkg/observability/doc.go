// Package observability provides logging, Prometheus metrics, health probes,
// OpenTelemetry setup and graceful shutdown for the botdock server.
//
// # Logging
//
//	logger, err := observability.NewLogger("info", observability.FormatJSON, os.Stdout)
//
// # Metrics
//
// Metrics implements the account observer used by the service layer:
//
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	metrics.AuthAttempt("login", "success")
//	router.Use(observability.HTTPMetricsMiddleware(metrics))
//
// # Health
//
//	checker := observability.NewHealthChecker(db, version)
//	observability.RegisterHealthRoutes(serveMux, checker)
package observability

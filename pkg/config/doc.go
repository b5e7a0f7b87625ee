// Package config loads botdock configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// BOTDOCK_* environment variables. The environment always wins.
//
//	cfg, err := config.Load(*configPath)
//
// Common variables:
//
//	BOTDOCK_PORT, BOTDOCK_HEALTH_PORT
//	BOTDOCK_DATABASE_DRIVER (postgres|sqlite3), BOTDOCK_DATABASE_DSN
//	BOTDOCK_GEMINI_API_KEY, BOTDOCK_GEMINI_MODEL
//	BOTDOCK_FRONTEND_URL, BOTDOCK_CORS_ORIGINS
//	BOTDOCK_LOG_LEVEL, BOTDOCK_LOG_FORMAT
//	BOTDOCK_OTEL_ENABLED, BOTDOCK_OTEL_ENDPOINT
package config

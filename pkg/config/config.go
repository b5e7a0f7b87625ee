package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/botdock/pkg/storage/sqlstore"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      sqlstore.Config     `yaml:"database"`
	Chat          ChatConfig          `yaml:"chat"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Health/metrics server (separate port for k8s probes)
	HealthPort string `yaml:"health_port"`

	CORSOrigins  []string `yaml:"cors_origins"`
	FrontendURL  string   `yaml:"frontend_url"`
	MaxBodyBytes int64    `yaml:"max_body_bytes"`
}

// ChatConfig configures the hosted language model
type ChatConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	MetricsEnabled bool `yaml:"metrics_enabled"`

	OTelEnabled        bool   `yaml:"otel_enabled"`
	OTelEndpoint       string `yaml:"otel_endpoint"`
	OTelServiceName    string `yaml:"otel_service_name"`
	OTelServiceVersion string `yaml:"otel_service_version"`
	OTelInsecure       bool   `yaml:"otel_insecure"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			HealthPort:      "9090",
			CORSOrigins:     []string{"*"},
			FrontendURL:     "http://localhost:5173",
			MaxBodyBytes:    1 << 20,
		},
		Database: sqlstore.DefaultConfig(),
		Chat: ChatConfig{
			Model:   "gemini-2.5-flash",
			BaseURL: "https://generativelanguage.googleapis.com",
			Timeout: 45 * time.Second,
		},
		Observability: ObservabilityConfig{
			LogLevel:           "info",
			LogFormat:          "json",
			MetricsEnabled:     true,
			OTelEndpoint:       "localhost:4317",
			OTelServiceName:    "botdock",
			OTelServiceVersion: "1.0.0",
			OTelInsecure:       true,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then BOTDOCK_* environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	s := &c.Server
	s.Host = getEnv("BOTDOCK_HOST", s.Host)
	s.Port = getEnv("BOTDOCK_PORT", s.Port)
	s.ReadTimeout = getEnvDuration("BOTDOCK_READ_TIMEOUT", s.ReadTimeout)
	s.WriteTimeout = getEnvDuration("BOTDOCK_WRITE_TIMEOUT", s.WriteTimeout)
	s.IdleTimeout = getEnvDuration("BOTDOCK_IDLE_TIMEOUT", s.IdleTimeout)
	s.ShutdownTimeout = getEnvDuration("BOTDOCK_SHUTDOWN_TIMEOUT", s.ShutdownTimeout)
	s.HealthPort = getEnv("BOTDOCK_HEALTH_PORT", s.HealthPort)
	s.CORSOrigins = getEnvList("BOTDOCK_CORS_ORIGINS", s.CORSOrigins)
	s.FrontendURL = getEnv("BOTDOCK_FRONTEND_URL", s.FrontendURL)
	s.MaxBodyBytes = getEnvInt64("BOTDOCK_MAX_BODY_BYTES", s.MaxBodyBytes)

	d := &c.Database
	d.Driver = getEnv("BOTDOCK_DATABASE_DRIVER", d.Driver)
	d.DSN = getEnv("BOTDOCK_DATABASE_DSN", d.DSN)
	d.MaxOpenConns = getEnvInt("BOTDOCK_DATABASE_MAX_OPEN_CONNS", d.MaxOpenConns)
	d.MaxIdleConns = getEnvInt("BOTDOCK_DATABASE_MAX_IDLE_CONNS", d.MaxIdleConns)
	d.ConnMaxLifetime = getEnvDuration("BOTDOCK_DATABASE_CONN_MAX_LIFETIME", d.ConnMaxLifetime)
	d.ConnectTimeout = getEnvDuration("BOTDOCK_DATABASE_CONNECT_TIMEOUT", d.ConnectTimeout)

	ch := &c.Chat
	ch.APIKey = getEnv("BOTDOCK_GEMINI_API_KEY", ch.APIKey)
	ch.Model = getEnv("BOTDOCK_GEMINI_MODEL", ch.Model)
	ch.BaseURL = getEnv("BOTDOCK_GEMINI_BASE_URL", ch.BaseURL)
	ch.Timeout = getEnvDuration("BOTDOCK_GEMINI_TIMEOUT", ch.Timeout)

	o := &c.Observability
	o.LogLevel = getEnv("BOTDOCK_LOG_LEVEL", o.LogLevel)
	o.LogFormat = getEnv("BOTDOCK_LOG_FORMAT", o.LogFormat)
	o.MetricsEnabled = getEnvBool("BOTDOCK_METRICS_ENABLED", o.MetricsEnabled)
	o.OTelEnabled = getEnvBool("BOTDOCK_OTEL_ENABLED", o.OTelEnabled)
	o.OTelEndpoint = getEnv("BOTDOCK_OTEL_ENDPOINT", o.OTelEndpoint)
	o.OTelServiceName = getEnv("BOTDOCK_OTEL_SERVICE_NAME", o.OTelServiceName)
	o.OTelServiceVersion = getEnv("BOTDOCK_OTEL_SERVICE_VERSION", o.OTelServiceVersion)
	o.OTelInsecure = getEnvBool("BOTDOCK_OTEL_INSECURE", o.OTelInsecure)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	if c.Server.HealthPort == "" {
		return errors.New("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return errors.New("server port and health port must be different")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("max body bytes must be positive")
	}

	switch c.Database.Driver {
	case sqlstore.DriverPostgres, sqlstore.DriverSQLite:
	default:
		return fmt.Errorf("invalid database driver: %s (must be %s or %s)",
			c.Database.Driver, sqlstore.DriverPostgres, sqlstore.DriverSQLite)
	}
	if c.Database.DSN == "" {
		return errors.New("database DSN is required")
	}

	if c.Chat.Model == "" || c.Chat.BaseURL == "" {
		return errors.New("chat model and base URL are required")
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return errors.New("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return errors.New("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// Addr is the API listen address
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// HealthAddr is the health/metrics listen address
func (s ServerConfig) HealthAddr() string {
	return s.Host + ":" + s.HealthPort
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated environment variable
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

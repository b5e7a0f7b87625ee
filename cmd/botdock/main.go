package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/botdock/pkg/api"
	"github.com/platinummonkey/botdock/pkg/audit"
	"github.com/platinummonkey/botdock/pkg/auth"
	"github.com/platinummonkey/botdock/pkg/chat"
	"github.com/platinummonkey/botdock/pkg/config"
	"github.com/platinummonkey/botdock/pkg/middleware"
	"github.com/platinummonkey/botdock/pkg/observability"
	"github.com/platinummonkey/botdock/pkg/service"
	"github.com/platinummonkey/botdock/pkg/storage/sqlstore"
)

var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("BOTDOCK_CONFIG"), "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("botdock exited with error")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout)

	otel, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		return fmt.Errorf("init opentelemetry: %w", err)
	}

	db, err := sqlstore.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := sqlstore.Migrate(ctx, db, cfg.Database.Driver); err != nil {
		db.Close()
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.WithField("driver", cfg.Database.Driver).Info("database ready")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)
	metrics.RegisterDBStats(db)

	store := sqlstore.New(db, sqlstore.WithErrorObserver(metrics.StoreError))

	auditDB, err := audit.NewDBLogger(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("create audit logger: %w", err)
	}
	recorder := audit.NewRecorder(audit.NewMultiLogger(auditDB, audit.NewLogrusLogger(logger)), logger)

	if cfg.Chat.APIKey == "" {
		logger.Warn("chat API key is not set, chat requests will fail upstream")
	}
	model, err := chat.NewGeminiClient(chat.GeminiConfig{
		APIKey:  cfg.Chat.APIKey,
		Model:   cfg.Chat.Model,
		BaseURL: cfg.Chat.BaseURL,
		Timeout: cfg.Chat.Timeout,
	})
	if err != nil {
		db.Close()
		return fmt.Errorf("create chat client: %w", err)
	}

	var routeMetrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		routeMetrics = metrics
	}

	server, err := api.NewServer(api.Options{
		Accounts:     service.NewAccountService(store, store, recorder, metrics, auditDB, logger),
		Bots:         service.NewBotService(store, recorder, logger),
		Chat:         chat.NewResponder(store, model, logger),
		Auth:         middleware.NewAuthMiddleware(auth.NewAuthenticator(store), recorder, logger),
		Metrics:      routeMetrics,
		Logger:       logger,
		CORSOrigins:  cfg.Server.CORSOrigins,
		FrontendURL:  cfg.Server.FrontendURL,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Tracing:      cfg.Observability.OTelEnabled,
	})
	if err != nil {
		db.Close()
		return fmt.Errorf("create api server: %w", err)
	}

	apiServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	opsMux := http.NewServeMux()
	observability.RegisterHealthRoutes(opsMux, observability.NewHealthChecker(db, version))
	if cfg.Observability.MetricsEnabled {
		observability.RegisterMetricsEndpoint(opsMux, registry)
	}
	opsServer := &http.Server{
		Addr:        cfg.Server.HealthAddr(),
		Handler:     opsMux,
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	shutdown.AddServer(apiServer)
	shutdown.AddServer(opsServer)
	shutdown.RegisterShutdownFunc("opentelemetry", func(ctx context.Context) error {
		return observability.ShutdownOTel(ctx, otel, logger)
	})
	shutdown.RegisterShutdownFunc("database", func(context.Context) error {
		return store.Close()
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", apiServer.Addr).Info("starting botdock API server")
		return serve(apiServer)
	})
	g.Go(func() error {
		logger.WithField("addr", opsServer.Addr).Info("starting health and metrics server")
		return serve(opsServer)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return shutdown.Shutdown(context.Background())
	})

	return g.Wait()
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", srv.Addr, err)
	}
	return nil
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/botdock/pkg/chat"
	"github.com/platinummonkey/botdock/pkg/httputil"
	"github.com/platinummonkey/botdock/pkg/middleware"
	"github.com/platinummonkey/botdock/pkg/observability"
	"github.com/platinummonkey/botdock/pkg/service"
)

// Options wires the server to its collaborators
type Options struct {
	Accounts *service.AccountService
	Bots     *service.BotService
	Chat     *chat.Responder
	Auth     *middleware.AuthMiddleware
	// Metrics may be nil
	Metrics *observability.Metrics
	Logger  logrus.FieldLogger

	CORSOrigins  []string
	FrontendURL  string
	MaxBodyBytes int64
	Tracing      bool
}

// Server represents our API server
type Server struct {
	router  *mux.Router
	handler http.Handler
	logger  logrus.FieldLogger
}

// RouteRegistrar is an interface for types that can register routes. public
// routes are anonymous; protected routes run behind the auth middleware.
type RouteRegistrar interface {
	RegisterRoutes(public, protected *mux.Router)
}

// NewServer creates a new API server
func NewServer(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Server{
		router: mux.NewRouter(),
		logger: logger,
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFound(w, "Not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteErrorMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	if opts.Metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(opts.Metrics))
	}

	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)

	// Public routes are registered before the protected subrouter so a
	// method mismatch there never shadows them
	public := s.router.NewRoute().Subrouter()
	protected := s.router.NewRoute().Subrouter()
	protected.Use(opts.Auth.Handler)

	widget, err := NewWidgetHandlers(opts.FrontendURL)
	if err != nil {
		return nil, err
	}

	for _, registrar := range []RouteRegistrar{
		NewAuthHandlers(opts.Accounts, logger),
		NewBotHandlers(opts.Bots, logger),
		NewChatHandlers(opts.Chat, logger),
		widget,
	} {
		registrar.RegisterRoutes(public, protected)
	}

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	s.handler = httputil.Chain(
		httputil.RecoveryMiddleware(logger),
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.CORSMiddleware(opts.CORSOrigins),
		httputil.MaxBytesMiddleware(maxBody),
	)(s.router)

	if opts.Tracing {
		s.handler = otelhttp.NewHandler(s.handler, "botdock-api")
	}

	return s, nil
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// health handles GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]string{"status": "ok"})
}

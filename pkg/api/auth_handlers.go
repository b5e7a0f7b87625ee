package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/botdock/pkg/contextkeys"
	"github.com/platinummonkey/botdock/pkg/httputil"
	"github.com/platinummonkey/botdock/pkg/service"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	accounts *service.AccountService
	logger   logrus.FieldLogger
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(accounts *service.AccountService, logger logrus.FieldLogger) *AuthHandlers {
	return &AuthHandlers{accounts: accounts, logger: logger}
}

// RegisterRoutes registers authentication routes
func (h *AuthHandlers) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)

	protected.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", h.me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/activity", h.activity).Methods(http.MethodGet)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// register handles POST /auth/register
func (h *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	if _, err := h.accounts.Register(r.Context(), req.Email, req.Password); err != nil {
		writeServiceError(w, r, h.logger, err, "Registration failed")
		return
	}

	httputil.WriteMessage(w, http.StatusCreated, "User created")
}

// login handles POST /auth/login
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Login failed")
		return
	}

	httputil.WriteSuccess(w, result)
}

// logout handles POST /auth/logout
func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	identity, _ := contextkeys.Identity(r.Context())
	token := contextkeys.Token(r.Context())

	if err := h.accounts.Logout(r.Context(), identity, token); err != nil {
		writeServiceError(w, r, h.logger, err, "Logout failed")
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Logged out")
}

// me handles GET /auth/me
func (h *AuthHandlers) me(w http.ResponseWriter, r *http.Request) {
	identity, _ := contextkeys.Identity(r.Context())

	me, err := h.accounts.Me(identity)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to get user")
		return
	}

	httputil.WriteSuccess(w, me)
}

// activity handles GET /auth/activity?limit=N
func (h *AuthHandlers) activity(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.ParseQueryInt(r, "limit", 0)
	if err != nil {
		httputil.WriteBadRequest(w, "limit must be an integer")
		return
	}

	identity, _ := contextkeys.Identity(r.Context())
	events, err := h.accounts.Activity(r.Context(), identity, limit)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to fetch activity")
		return
	}

	httputil.WriteSuccess(w, events)
}

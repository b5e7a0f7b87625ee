package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/botdock/pkg/contextkeys"
	"github.com/platinummonkey/botdock/pkg/httputil"
	"github.com/platinummonkey/botdock/pkg/service"
)

// BotHandlers handles bot management requests
type BotHandlers struct {
	bots   *service.BotService
	logger logrus.FieldLogger
}

// NewBotHandlers creates a new bot handlers instance
func NewBotHandlers(bots *service.BotService, logger logrus.FieldLogger) *BotHandlers {
	return &BotHandlers{bots: bots, logger: logger}
}

// RegisterRoutes registers bot routes
func (h *BotHandlers) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/bots/{id}", h.getBot).Methods(http.MethodGet)

	protected.HandleFunc("/bots", h.listBots).Methods(http.MethodGet)
	protected.HandleFunc("/bots", h.createBot).Methods(http.MethodPost)
	protected.HandleFunc("/bots/{id}", h.deleteBot).Methods(http.MethodDelete)
}

type createBotRequest struct {
	Name           string   `json:"name"`
	Instructions   string   `json:"instructions"`
	AllowedDomains []string `json:"allowed_domains"`
}

// listBots handles GET /bots
func (h *BotHandlers) listBots(w http.ResponseWriter, r *http.Request) {
	identity, _ := contextkeys.Identity(r.Context())

	bots, err := h.bots.ListMine(r.Context(), identity)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to fetch bots")
		return
	}

	httputil.WriteSuccess(w, bots)
}

// createBot handles POST /bots
func (h *BotHandlers) createBot(w http.ResponseWriter, r *http.Request) {
	var req createBotRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	identity, _ := contextkeys.Identity(r.Context())
	bot, err := h.bots.Create(r.Context(), identity, service.CreateBotInput{
		Name:           req.Name,
		Instructions:   req.Instructions,
		AllowedDomains: req.AllowedDomains,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to create bot")
		return
	}

	httputil.WriteCreated(w, bot)
}

// getBot handles GET /bots/{id}; anonymous callers see the public projection
func (h *BotHandlers) getBot(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParsePathString(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	bot, err := h.bots.GetPublic(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		httputil.WriteNotFound(w, "Bot not found")
		return
	}
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to fetch bot")
		return
	}

	httputil.WriteSuccess(w, bot)
}

// deleteBot handles DELETE /bots/{id}
func (h *BotHandlers) deleteBot(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParsePathString(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	identity, _ := contextkeys.Identity(r.Context())
	err = h.bots.Delete(r.Context(), identity, id)
	if errors.Is(err, service.ErrNotFound) {
		httputil.WriteNotFound(w, "Bot not found or unauthorized")
		return
	}
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to delete bot")
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Bot deleted")
}

package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/botdock/pkg/chat"
	"github.com/platinummonkey/botdock/pkg/httputil"
	"github.com/platinummonkey/botdock/pkg/service"
)

// ChatHandlers serves the anonymous widget chat endpoint
type ChatHandlers struct {
	responder *chat.Responder
	logger    logrus.FieldLogger
}

// NewChatHandlers creates a new chat handlers instance
func NewChatHandlers(responder *chat.Responder, logger logrus.FieldLogger) *ChatHandlers {
	return &ChatHandlers{responder: responder, logger: logger}
}

// RegisterRoutes registers chat routes
func (h *ChatHandlers) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/chat/{botId}", h.chat).Methods(http.MethodPost)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// chat handles POST /chat/{botId}
func (h *ChatHandlers) chat(w http.ResponseWriter, r *http.Request) {
	botID, err := httputil.ParsePathString(r, "botId")
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	var req chatRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	reply, err := h.responder.Reply(r.Context(), botID, req.Message)
	if errors.Is(err, service.ErrNotFound) {
		httputil.WriteNotFound(w, "Bot not found")
		return
	}
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to process message")
		return
	}

	httputil.WriteSuccess(w, chatResponse{Response: reply})
}

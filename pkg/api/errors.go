package api

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/botdock/pkg/chat"
	"github.com/platinummonkey/botdock/pkg/contextkeys"
	"github.com/platinummonkey/botdock/pkg/httputil"
	"github.com/platinummonkey/botdock/pkg/service"
)

// writeServiceError maps a service error to its response. failMsg is the
// client-facing text for a 500; the cause is only logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger logrus.FieldLogger, err error, failMsg string) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		httputil.WriteBadRequest(w, validation.Message)
	case errors.Is(err, service.ErrInvalidCredentials):
		httputil.WriteUnauthorized(w, "Invalid credentials")
	case errors.Is(err, service.ErrUnauthenticated):
		httputil.WriteUnauthorized(w, "Unauthorized")
	case errors.Is(err, service.ErrConflict):
		httputil.WriteConflict(w, "Email already exists")
	case errors.Is(err, service.ErrNotFound):
		httputil.WriteNotFound(w, "Not found")
	case errors.Is(err, chat.ErrUpstream):
		httputil.WriteBadGateway(w, "Failed to process message")
	default:
		contextkeys.Logger(r.Context(), logger).WithError(err).Error(failMsg)
		httputil.WriteInternalError(w, failMsg)
	}
}

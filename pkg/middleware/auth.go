package middleware

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/botdock/pkg/audit"
	"github.com/platinummonkey/botdock/pkg/auth"
	"github.com/platinummonkey/botdock/pkg/contextkeys"
	"github.com/platinummonkey/botdock/pkg/httputil"
)

// AuthMiddleware resolves the bearer token on every request; there is no
// identity cache, so a revoked token fails on its next use
type AuthMiddleware struct {
	authenticator *auth.Authenticator
	audit         *audit.Recorder
	logger        logrus.FieldLogger
}

// NewAuthMiddleware creates a new authentication middleware. recorder may be nil.
func NewAuthMiddleware(authenticator *auth.Authenticator, recorder *audit.Recorder, logger logrus.FieldLogger) *AuthMiddleware {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthMiddleware{
		authenticator: authenticator,
		audit:         recorder,
		logger:        logger,
	}
}

// Handler wraps an HTTP handler with authentication. On success the identity
// and token are in the request context.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		authHeader := r.Header.Get("Authorization")

		identity, err := m.authenticator.Authenticate(ctx, authHeader)
		if err != nil {
			var authErr *auth.AuthError
			if errors.As(err, &authErr) && authErr.IsStoreFailure() {
				contextkeys.Logger(ctx, m.logger).WithError(authErr.Err).Error("session lookup failed")
				httputil.WriteInternalError(w, "Internal server error")
				return
			}

			event := audit.NewEvent(ctx, audit.EventTypeAuthTokenValidateFail, audit.EventStatusFailure)
			event.ResourceType = audit.ResourceTypeSession
			event.Message = "request rejected"
			if authErr != nil {
				event.Metadata["reason"] = string(authErr.Reason)
			}
			m.audit.Record(ctx, event)

			httputil.WriteUnauthorized(w, "Unauthorized")
			return
		}

		token, _ := auth.ParseBearerToken(authHeader)
		ctx = contextkeys.WithIdentity(ctx, identity)
		ctx = contextkeys.WithToken(ctx, token)
		if entry, ok := contextkeys.Logger(ctx, nil).(*logrus.Entry); ok {
			ctx = contextkeys.WithLogger(ctx, entry.WithField("user_id", identity.ID))
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

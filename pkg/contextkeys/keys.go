// Package contextkeys provides centralized context key definitions
//
// All request-scoped values are defined here with typed accessors, so handlers
// never type-assert raw context values.
//
// USAGE PATTERN:
//
//	ctx = contextkeys.WithIdentity(ctx, identity)
//	identity, ok := contextkeys.Identity(ctx)
package contextkeys

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/botdock/pkg/auth"
)

// Key is the type for context keys to prevent collisions
type Key string

const (
	// IdentityKey contains *auth.Identity
	// Set by: middleware.Auth (pkg/middleware/auth.go)
	// Required by: all bearer-protected endpoints
	IdentityKey Key = "identity"

	// TokenKey contains the raw bearer token string
	// Set by: middleware.Auth
	// Used by: logout, which revokes exactly the presented token
	TokenKey Key = "session_token"

	// RequestIDKey contains request ID string (UUID)
	// Set by: httputil.RequestIDMiddleware
	// Used by: logger, audit trail
	RequestIDKey Key = "request_id"

	// ClientIPKey contains the caller address as seen by the server
	// Set by: httputil.RequestIDMiddleware
	// Used by: audit trail
	ClientIPKey Key = "client_ip"

	// UserAgentKey contains the User-Agent header
	UserAgentKey Key = "user_agent"

	// LoggerKey contains *logrus.Entry carrying request fields
	// Set by: httputil.LoggingMiddleware, enriched by middleware.Auth
	LoggerKey Key = "logger"
)

// WithIdentity adds the authenticated identity to the context
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// Identity retrieves the authenticated identity from context
func Identity(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*auth.Identity)
	return identity, ok && identity != nil
}

// WithToken adds the presented session token to the context
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}

// Token retrieves the presented session token from context
func Token(ctx context.Context) string {
	if token, ok := ctx.Value(TokenKey).(string); ok {
		return token
	}
	return ""
}

// WithRequestID adds request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithClient adds caller address and user agent to the context
func WithClient(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ClientIPKey, ip)
	return context.WithValue(ctx, UserAgentKey, userAgent)
}

// GetClientIP retrieves the caller address from context
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ClientIPKey).(string); ok {
		return ip
	}
	return ""
}

// GetUserAgent retrieves the caller user agent from context
func GetUserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(UserAgentKey).(string); ok {
		return ua
	}
	return ""
}

// WithLogger adds a request-scoped log entry to the context
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, LoggerKey, entry)
}

// Logger retrieves the request-scoped log entry, falling back to fallback
func Logger(ctx context.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if entry, ok := ctx.Value(LoggerKey).(*logrus.Entry); ok && entry != nil {
		return entry
	}
	return fallback
}

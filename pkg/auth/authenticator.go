package auth

import (
	"context"
	"fmt"
	"strings"
)

// Reason explains why a request could not be authenticated
type Reason string

const (
	ReasonNoToken      Reason = "no_token"
	ReasonInvalidToken Reason = "invalid_token"
	ReasonStoreError   Reason = "store_error"
)

// AuthError is returned when a request does not carry a usable session
type AuthError struct {
	Reason Reason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unauthenticated (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unauthenticated (%s)", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsStoreFailure reports whether the session store, not the caller, is at fault
func (e *AuthError) IsStoreFailure() bool {
	return e.Reason == ReasonStoreError
}

// SessionLookup resolves a session token to the identity of its user.
// It returns nil, nil when no live session (or no owning user) matches.
type SessionLookup interface {
	GetIdentity(ctx context.Context, token string) (*Identity, error)
}

// Authenticator validates bearer tokens against the session store on every call
type Authenticator struct {
	sessions SessionLookup
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(sessions SessionLookup) *Authenticator {
	return &Authenticator{sessions: sessions}
}

// Authenticate resolves the Authorization header value to an identity
func (a *Authenticator) Authenticate(ctx context.Context, authHeader string) (*Identity, error) {
	token, ok := ParseBearerToken(authHeader)
	if !ok {
		return nil, &AuthError{Reason: ReasonNoToken}
	}

	identity, err := a.sessions.GetIdentity(ctx, token)
	if err != nil {
		return nil, &AuthError{Reason: ReasonStoreError, Err: err}
	}
	if identity == nil {
		return nil, &AuthError{Reason: ReasonInvalidToken}
	}

	return identity, nil
}

// ParseBearerToken extracts the token from a "Bearer <token>" header value
func ParseBearerToken(authHeader string) (string, bool) {
	fields := strings.Fields(authHeader)
	if len(fields) < 2 {
		return "", false
	}
	if !strings.EqualFold(fields[0], "Bearer") {
		return "", false
	}
	return fields[1], true
}

package auth

import (
	"context"
	"errors"
	"testing"
)

type stubSessions struct {
	identities map[string]*Identity
	err        error
	calls      int
}

func (s *stubSessions) GetIdentity(ctx context.Context, token string) (*Identity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.identities[token], nil
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"valid", "Bearer abc123", "abc123", true},
		{"lowercase scheme", "bearer abc123", "abc123", true},
		{"extra whitespace", "  Bearer \t abc123  ", "abc123", true},
		{"trailing fields ignored", "Bearer abc123 extra", "abc123", true},
		{"empty", "", "", false},
		{"scheme only", "Bearer", "", false},
		{"scheme with space", "Bearer ", "", false},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", false},
		{"token only", "abc123", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBearerToken(tt.header)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseBearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAuthenticator_Authenticate(t *testing.T) {
	alice := &Identity{ID: "u1", Email: "a@x.com", Role: DefaultRole}

	tests := []struct {
		name       string
		header     string
		sessions   *stubSessions
		wantReason Reason
		wantCalls  int
	}{
		{
			name:       "missing header",
			header:     "",
			sessions:   &stubSessions{},
			wantReason: ReasonNoToken,
			wantCalls:  0,
		},
		{
			name:       "malformed header",
			header:     "Token abc",
			sessions:   &stubSessions{},
			wantReason: ReasonNoToken,
			wantCalls:  0,
		},
		{
			name:       "unknown token",
			header:     "Bearer nope",
			sessions:   &stubSessions{identities: map[string]*Identity{"tok": alice}},
			wantReason: ReasonInvalidToken,
			wantCalls:  1,
		},
		{
			name:       "store failure",
			header:     "Bearer tok",
			sessions:   &stubSessions{err: errors.New("connection refused")},
			wantReason: ReasonStoreError,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAuthenticator(tt.sessions)
			identity, err := a.Authenticate(context.Background(), tt.header)
			if identity != nil {
				t.Errorf("expected no identity, got %+v", identity)
			}

			var authErr *AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("expected *AuthError, got %v", err)
			}
			if authErr.Reason != tt.wantReason {
				t.Errorf("reason = %s, want %s", authErr.Reason, tt.wantReason)
			}
			if authErr.IsStoreFailure() != (tt.wantReason == ReasonStoreError) {
				t.Errorf("IsStoreFailure() = %v for reason %s", authErr.IsStoreFailure(), authErr.Reason)
			}
			if tt.sessions.calls != tt.wantCalls {
				t.Errorf("store calls = %d, want %d", tt.sessions.calls, tt.wantCalls)
			}
		})
	}
}

func TestAuthenticator_ValidToken(t *testing.T) {
	alice := &Identity{ID: "u1", Email: "a@x.com", Role: DefaultRole}
	sessions := &stubSessions{identities: map[string]*Identity{"tok": alice}}
	a := NewAuthenticator(sessions)

	identity, err := a.Authenticate(context.Background(), "Bearer tok")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if identity.ID != "u1" || identity.Email != "a@x.com" || identity.Role != DefaultRole {
		t.Errorf("unexpected identity %+v", identity)
	}
}

func TestAuthenticator_NoCaching(t *testing.T) {
	alice := &Identity{ID: "u1", Email: "a@x.com"}
	sessions := &stubSessions{identities: map[string]*Identity{"tok": alice}}
	a := NewAuthenticator(sessions)

	if _, err := a.Authenticate(context.Background(), "Bearer tok"); err != nil {
		t.Fatalf("first Authenticate() error = %v", err)
	}

	// Revoke and re-check: must take effect immediately
	delete(sessions.identities, "tok")

	_, err := a.Authenticate(context.Background(), "Bearer tok")
	var authErr *AuthError
	if !errors.As(err, &authErr) || authErr.Reason != ReasonInvalidToken {
		t.Fatalf("expected invalid token after revocation, got %v", err)
	}
	if sessions.calls != 2 {
		t.Errorf("store calls = %d, want 2", sessions.calls)
	}
}

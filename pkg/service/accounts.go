package service

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/botdock/pkg/audit"
	"github.com/platinummonkey/botdock/pkg/auth"
	"github.com/platinummonkey/botdock/pkg/storage"
)

// Outcome labels reported to the Observer
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidInput       = "invalid_input"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeConflict           = "conflict"
	OutcomeError              = "error"
)

// Observer receives account outcomes for metrics
type Observer interface {
	AuthAttempt(operation, outcome string)
	SessionRevoked()
}

type noopObserver struct{}

func (noopObserver) AuthAttempt(operation, outcome string) {}
func (noopObserver) SessionRevoked()                       {}

// ActivitySource lists past audit events
type ActivitySource interface {
	Search(ctx context.Context, filter audit.SearchFilter) ([]*audit.Event, error)
}

// PublicUser is the projection returned at login
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LoginResult is returned on successful login
type LoginResult struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// fallbackDummyHash is a well-formed stored value no password is known to
// match. Used when a fresh dummy hash cannot be derived.
const fallbackDummyHash = "9a7e112224cc1f782a41cc93d1a7c731:" +
	"6e1b1689e07130d7c1ed3bf0588885637cc5a33be1f508c4e51ff69b98c94a9a" +
	"e0a8c77be99be5598288398c8f74bf03b46d006b852397ef5a1bad24c64734a6"

type credentialHasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) bool
}

// AccountService handles registration, login, logout and identity lookups
type AccountService struct {
	users    storage.UserStore
	sessions storage.SessionStore
	hasher   credentialHasher
	tokens   *auth.TokenGenerator
	audit    *audit.Recorder
	observer Observer
	activity ActivitySource
	log      logrus.FieldLogger

	dummyOnce sync.Once
	dummyHash string
}

// NewAccountService creates an account service. recorder, observer and
// activity may be nil.
func NewAccountService(users storage.UserStore, sessions storage.SessionStore, recorder *audit.Recorder, observer Observer, activity ActivitySource, log logrus.FieldLogger) *AccountService {
	if observer == nil {
		observer = noopObserver{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AccountService{
		users:    users,
		sessions: sessions,
		hasher:   auth.NewPasswordHasher(),
		tokens:   auth.NewTokenGenerator(),
		audit:    recorder,
		observer: observer,
		activity: activity,
		log:      log,
	}
}

// Register creates a user with the default role
func (s *AccountService) Register(ctx context.Context, email, password string) (*PublicUser, error) {
	if email == "" || password == "" {
		s.observer.AuthAttempt("register", OutcomeInvalidInput)
		return nil, invalid("Email and password required")
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		s.observer.AuthAttempt("register", OutcomeConflict)
		return nil, ErrConflict
	case !errors.Is(err, storage.ErrNotFound):
		s.observer.AuthAttempt("register", OutcomeError)
		return nil, storeErr("check existing user", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.observer.AuthAttempt("register", OutcomeError)
		return nil, internalErr("hash password", err)
	}

	id, err := s.tokens.NewID()
	if err != nil {
		s.observer.AuthAttempt("register", OutcomeError)
		return nil, internalErr("generate user id", err)
	}

	user := &auth.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Role:         auth.DefaultRole,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same email
		if errors.Is(err, storage.ErrDuplicate) {
			s.observer.AuthAttempt("register", OutcomeConflict)
			return nil, ErrConflict
		}
		s.observer.AuthAttempt("register", OutcomeError)
		s.audit.Failure(ctx, audit.EventTypeAuthRegister, "registration failed", err)
		return nil, storeErr("create user", err)
	}

	s.observer.AuthAttempt("register", OutcomeSuccess)

	event := audit.NewEvent(ctx, audit.EventTypeAuthRegister, audit.EventStatusSuccess)
	event.UserID = user.ID
	event.Email = user.Email
	event.ResourceType = audit.ResourceTypeUser
	event.ResourceID = user.ID
	event.Message = "user registered"
	s.audit.Record(ctx, event)

	return &PublicUser{ID: user.ID, Email: user.Email}, nil
}

// Login verifies credentials and issues a new session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		s.observer.AuthAttempt("login", OutcomeInvalidInput)
		return nil, invalid("Email and password required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.observer.AuthAttempt("login", OutcomeError)
			return nil, storeErr("get user", err)
		}
		// Spend the same work as a real verification
		s.hasher.Verify(password, s.dummy())
		s.loginFailed(ctx, email, "unknown email")
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.loginFailed(ctx, email, "wrong password")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken()
	if err != nil {
		s.observer.AuthAttempt("login", OutcomeError)
		return nil, internalErr("generate session token", err)
	}

	if err := s.sessions.CreateSession(ctx, &auth.Session{Token: token, UserID: user.ID}); err != nil {
		s.observer.AuthAttempt("login", OutcomeError)
		return nil, storeErr("create session", err)
	}

	s.observer.AuthAttempt("login", OutcomeSuccess)

	event := audit.NewEvent(ctx, audit.EventTypeAuthLogin, audit.EventStatusSuccess)
	event.UserID = user.ID
	event.Email = user.Email
	event.ResourceType = audit.ResourceTypeSession
	event.Message = "session issued"
	s.audit.Record(ctx, event)

	return &LoginResult{
		Token: token,
		User:  PublicUser{ID: user.ID, Email: user.Email},
	}, nil
}

// Logout revokes token. Revoking an already absent session succeeds.
func (s *AccountService) Logout(ctx context.Context, identity *auth.Identity, token string) error {
	if identity == nil {
		return ErrUnauthenticated
	}

	n, err := s.sessions.DeleteSession(ctx, token)
	if err != nil {
		s.observer.AuthAttempt("logout", OutcomeError)
		return storeErr("delete session", err)
	}

	s.observer.AuthAttempt("logout", OutcomeSuccess)
	if n > 0 {
		s.observer.SessionRevoked()
	}

	event := audit.NewEvent(ctx, audit.EventTypeAuthLogout, audit.EventStatusSuccess)
	event.UserID = identity.ID
	event.Email = identity.Email
	event.ResourceType = audit.ResourceTypeSession
	event.Metadata["revoked"] = n > 0
	event.Message = "session revoked"
	s.audit.Record(ctx, event)

	return nil
}

// Me returns the caller's identity
func (s *AccountService) Me(identity *auth.Identity) (*auth.Identity, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	return &auth.Identity{ID: identity.ID, Email: identity.Email, Role: identity.Role}, nil
}

// Activity returns the caller's most recent audit events
func (s *AccountService) Activity(ctx context.Context, identity *auth.Identity, limit int) ([]*audit.Event, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if s.activity == nil {
		return []*audit.Event{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	events, err := s.activity.Search(ctx, audit.SearchFilter{UserID: identity.ID, Limit: limit})
	if err != nil {
		return nil, storeErr("search audit events", err)
	}
	return events, nil
}

func (s *AccountService) loginFailed(ctx context.Context, email, reason string) {
	s.observer.AuthAttempt("login", OutcomeInvalidCredentials)

	event := audit.NewEvent(ctx, audit.EventTypeAuthLoginFailed, audit.EventStatusFailure)
	event.Email = email
	event.ResourceType = audit.ResourceTypeUser
	event.Message = "invalid credentials"
	event.Metadata["reason"] = reason
	s.audit.Record(ctx, event)

	s.log.WithField("reason", reason).Info("login rejected")
}

// dummy returns a well-formed stored hash that no password is known to match
func (s *AccountService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash = fallbackDummyHash

		secret, err := s.tokens.GenerateToken()
		if err != nil {
			secret = "botdock-dummy-password"
		}
		hash, err := s.hasher.Hash(secret)
		if err != nil {
			s.log.WithError(err).Warn("failed to derive dummy password hash, using fallback")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/platinummonkey/botdock/pkg/auth"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("storage: not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint
	ErrDuplicate = errors.New("storage: duplicate")
)

// Bot is the full owner-visible record
type Bot struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"user_id"`
	Name           string    `json:"name"`
	Instructions   string    `json:"instructions"`
	AllowedDomains []string  `json:"allowed_domains"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PublicBot is the projection of a bot that anyone may read
type PublicBot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserStore persists registered operators
type UserStore interface {
	// CreateUser inserts u. Returns ErrDuplicate when the email is taken.
	CreateUser(ctx context.Context, u *auth.User) error
	// GetUserByEmail returns ErrNotFound on a miss
	GetUserByEmail(ctx context.Context, email string) (*auth.User, error)
}

// SessionStore persists bearer sessions
type SessionStore interface {
	CreateSession(ctx context.Context, s *auth.Session) error
	// GetIdentity joins the session with its user. A miss returns nil, nil.
	GetIdentity(ctx context.Context, token string) (*auth.Identity, error)
	// DeleteSession returns the number of rows removed; zero is not an error
	DeleteSession(ctx context.Context, token string) (int64, error)
}

// BotStore persists bots. Owner scoping happens in the queries themselves.
type BotStore interface {
	CreateBot(ctx context.Context, b *Bot) error
	ListBotsByOwner(ctx context.Context, ownerID string) ([]*Bot, error)
	GetPublicBot(ctx context.Context, id string) (*PublicBot, error)
	GetBot(ctx context.Context, id string) (*Bot, error)
	// DeleteBotOwnedBy removes the bot only when ownerID matches; returns rows affected
	DeleteBotOwnedBy(ctx context.Context, id, ownerID string) (int64, error)
}

// HealthChecker is implemented by stores backed by a remote database
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Store composes every capability the service layer needs
type Store interface {
	UserStore
	SessionStore
	BotStore
	HealthChecker
}

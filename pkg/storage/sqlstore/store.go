package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/platinummonkey/botdock/pkg/storage"
)

var _ storage.Store = (*Store)(nil)

// ErrorObserver is notified of every failed store operation that is not a
// plain miss or duplicate
type ErrorObserver func(operation string)

// Option configures a Store
type Option func(*Store)

// WithErrorObserver registers a callback for store failures
func WithErrorObserver(fn ErrorObserver) Option {
	return func(s *Store) {
		s.observe = fn
	}
}

// Store implements storage.Store on database/sql. Queries use $n placeholders,
// which both lib/pq and go-sqlite3 accept.
type Store struct {
	db      *sql.DB
	observe ErrorObserver
}

// New creates a store on an already opened and migrated database
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying connection pool
func (s *Store) DB() *sql.DB {
	return s.db
}

// HealthCheck pings the database
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unhealthy: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) fail(operation string, err error) error {
	if s.observe != nil {
		s.observe(operation)
	}
	return fmt.Errorf("%s: %w", operation, err)
}

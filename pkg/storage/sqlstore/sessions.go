package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/platinummonkey/botdock/pkg/auth"
	"github.com/platinummonkey/botdock/pkg/storage"
)

// CreateSession stores a freshly issued token
func (s *Store) CreateSession(ctx context.Context, sess *auth.Session) error {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO sessions (token, user_id, created_at) VALUES ($1, $2, $3)`

	if _, err := s.db.ExecContext(ctx, query, sess.Token, sess.UserID, sess.CreatedAt); err != nil {
		if isDuplicate(err) {
			return storage.ErrDuplicate
		}
		return s.fail("create session", err)
	}
	return nil
}

// GetIdentity resolves a token to its user. Sessions whose user no longer
// exists never match.
func (s *Store) GetIdentity(ctx context.Context, token string) (*auth.Identity, error) {
	query := `
		SELECT u.id, u.email, u.role
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1
	`

	var id auth.Identity
	var role string
	err := s.db.QueryRowContext(ctx, query, token).Scan(&id.ID, &id.Email, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get session identity", err)
	}

	id.Role = auth.Role(role)
	return &id, nil
}

// DeleteSession revokes a token
func (s *Store) DeleteSession(ctx context.Context, token string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return 0, s.fail("delete session", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, s.fail("delete session", err)
	}
	return n, nil
}

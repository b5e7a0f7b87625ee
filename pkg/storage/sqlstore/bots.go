package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/platinummonkey/botdock/pkg/storage"
)

const botColumns = `id, user_id, name, instructions, allowed_domains, created_at, updated_at`

// CreateBot inserts a new bot
func (s *Store) CreateBot(ctx context.Context, b *storage.Bot) error {
	if b.AllowedDomains == nil {
		b.AllowedDomains = []string{}
	}
	domainsJSON, err := json.Marshal(b.AllowedDomains)
	if err != nil {
		return fmt.Errorf("failed to marshal allowed domains: %w", err)
	}

	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}

	query := `
		INSERT INTO bots (` + botColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.db.ExecContext(ctx, query,
		b.ID,
		b.OwnerID,
		b.Name,
		b.Instructions,
		string(domainsJSON),
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		if isDuplicate(err) {
			return storage.ErrDuplicate
		}
		return s.fail("create bot", err)
	}
	return nil
}

// ListBotsByOwner returns the owner's bots, newest first
func (s *Store) ListBotsByOwner(ctx context.Context, ownerID string) ([]*storage.Bot, error) {
	query := `
		SELECT ` + botColumns + `
		FROM bots
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, s.fail("list bots", err)
	}
	defer rows.Close()

	bots := make([]*storage.Bot, 0)
	for rows.Next() {
		b, err := scanBot(rows)
		if err != nil {
			return nil, s.fail("list bots", err)
		}
		bots = append(bots, b)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list bots", err)
	}

	return bots, nil
}

// GetPublicBot returns only the publicly readable columns
func (s *Store) GetPublicBot(ctx context.Context, id string) (*storage.PublicBot, error) {
	query := `SELECT id, name, created_at FROM bots WHERE id = $1`

	var pub storage.PublicBot
	err := s.db.QueryRowContext(ctx, query, id).Scan(&pub.ID, &pub.Name, &pub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, s.fail("get public bot", err)
	}
	return &pub, nil
}

// GetBot returns the full record. Callers must not expose it to non-owners.
func (s *Store) GetBot(ctx context.Context, id string) (*storage.Bot, error) {
	query := `SELECT ` + botColumns + ` FROM bots WHERE id = $1`

	b, err := scanBot(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, s.fail("get bot", err)
	}
	return b, nil
}

// DeleteBotOwnedBy deletes the bot in a single statement scoped to its owner
func (s *Store) DeleteBotOwnedBy(ctx context.Context, id, ownerID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bots WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return 0, s.fail("delete bot", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, s.fail("delete bot", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBot(row rowScanner) (*storage.Bot, error) {
	var b storage.Bot
	var domainsJSON string

	if err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Name,
		&b.Instructions,
		&domainsJSON,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.AllowedDomains = []string{}
	if domainsJSON != "" {
		if err := json.Unmarshal([]byte(domainsJSON), &b.AllowedDomains); err != nil {
			return nil, fmt.Errorf("failed to unmarshal allowed domains: %w", err)
		}
	}
	return &b, nil
}

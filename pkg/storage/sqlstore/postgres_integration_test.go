//go:build integration
// +build integration

package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/platinummonkey/botdock/pkg/auth"
	"github.com/platinummonkey/botdock/pkg/storage"
)

func setupPostgres(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("botdock_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.DSN = dsn

	db, err := Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(ctx, db, DriverPostgres))
	return New(db)
}

func TestPostgres_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := setupPostgres(t)

	require.NoError(t, s.CreateUser(ctx, &auth.User{ID: "u1", Email: "a@x.com", PasswordHash: "s:d"}))
	err := s.CreateUser(ctx, &auth.User{ID: "u2", Email: "a@x.com", PasswordHash: "s:d"})
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	require.NoError(t, s.CreateSession(ctx, &auth.Session{Token: "tok", UserID: "u1"}))
	id, err := s.GetIdentity(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "a@x.com", id.Email)

	require.NoError(t, s.CreateBot(ctx, &storage.Bot{ID: "b1", OwnerID: "u1", Name: "n", Instructions: "i"}))
	bots, err := s.ListBotsByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, bots, 1)

	n, err := s.DeleteBotOwnedBy(ctx, "b1", "someone-else")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = s.DeleteSession(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	id, err = s.GetIdentity(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, id)
}

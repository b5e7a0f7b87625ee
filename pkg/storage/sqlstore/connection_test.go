package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"memory", ":memory:", ":memory:?_foreign_keys=on"},
		{"file", "/var/lib/botdock.db", "/var/lib/botdock.db?_foreign_keys=on"},
		{"existing params", "file:test.db?cache=shared", "file:test.db?cache=shared&_foreign_keys=on"},
		{"explicit foreign keys", "test.db?_foreign_keys=off", "test.db?_foreign_keys=off"},
		{"short alias", "test.db?_fk=1", "test.db?_fk=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sqliteDSN(tt.input))
		})
	}
}

func TestIsMemoryDSN(t *testing.T) {
	assert.True(t, isMemoryDSN(":memory:"))
	assert.True(t, isMemoryDSN("file:x?mode=memory&cache=shared"))
	assert.False(t, isMemoryDSN("/tmp/botdock.db"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, 20, cfg.MaxOpenConns)
	assert.Equal(t, 2, cfg.MaxIdleConns)
	assert.NotZero(t, cfg.ConnectTimeout)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Driver = "oracle"
	cfg.DSN = "whatever"

	_, err := Open(context.Background(), cfg)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestMigrate_UnsupportedDriver(t *testing.T) {
	err := Migrate(context.Background(), nil, "oracle")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Driver = DriverSQLite
	cfg.DSN = ":memory:"

	db, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(ctx, db, DriverSQLite))
	require.NoError(t, Migrate(ctx, db, DriverSQLite))

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_events`).Scan(&count))
	assert.Equal(t, 0, count)
}

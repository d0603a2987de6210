package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sitepilot/engine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffCapsDelay(t *testing.T) {
	b := backoff{maxRetries: 5, delay: 500 * time.Millisecond, maxDelay: 5 * time.Second}
	assert.Equal(t, 500*time.Millisecond, b.nextDelay(0))
	assert.Equal(t, 2*time.Second, b.nextDelay(2))
	assert.Equal(t, 5*time.Second, b.nextDelay(6))
}

func TestSqlitePath(t *testing.T) {
	p, ok := sqlitePath("sqlite:///tmp/site.db")
	assert.True(t, ok)
	assert.Equal(t, "/tmp/site.db", p)

	_, ok = sqlitePath("postgres://u:p@localhost/db")
	assert.False(t, ok)
}

func TestOpenSQLite(t *testing.T) {
	logger.UseNop()
	path := filepath.Join(t.TempDir(), "engine.db")

	db, err := Open(context.Background(), "sqlite://"+path, Options{})
	require.NoError(t, err)
	require.NoError(t, Ping(context.Background(), db))

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

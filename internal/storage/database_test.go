package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewSQLiteDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCooldown_RoundTrip(t *testing.T) {
	db := newTestDatabase(t)

	// Missing token yields zero time
	got, err := db.GetCooldown("tok123")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	when := time.Now().Truncate(time.Second)
	require.NoError(t, db.SaveCooldown("tok123", when))

	got, err = db.GetCooldown("tok123")
	require.NoError(t, err)
	assert.True(t, when.Equal(got))
}

func TestCooldown_Overwrite(t *testing.T) {
	db := newTestDatabase(t)

	first := time.Now().Add(-time.Hour).Truncate(time.Second)
	second := time.Now().Truncate(time.Second)

	require.NoError(t, db.SaveCooldown("tok123", first))
	require.NoError(t, db.SaveCooldown("tok123", second))

	got, err := db.GetCooldown("tok123")
	require.NoError(t, err)
	assert.True(t, second.Equal(got))
}

func TestCooldown_Clear(t *testing.T) {
	db := newTestDatabase(t)

	require.NoError(t, db.SaveCooldown("tok123", time.Now()))
	require.NoError(t, db.ClearCooldown("tok123"))

	got, err := db.GetCooldown("tok123")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	// Clearing an unknown token is not an error
	assert.NoError(t, db.ClearCooldown("unknown"))
}

func TestCooldown_EmptyToken(t *testing.T) {
	db := newTestDatabase(t)
	assert.Error(t, db.SaveCooldown("", time.Now()))
}

func TestConfig_RoundTrip(t *testing.T) {
	db := newTestDatabase(t)

	val, err := db.GetConfig("server_url")
	require.NoError(t, err)
	assert.Empty(t, val)

	require.NoError(t, db.SaveConfig("server_url", "https://bar.example.com"))
	require.NoError(t, db.SaveConfig("server_url", "https://other.example.com"))

	val, err = db.GetConfig("server_url")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.com", val)
}

func TestConfig_EmptyKey(t *testing.T) {
	db := newTestDatabase(t)
	assert.Error(t, db.SaveConfig("", "value"))
}

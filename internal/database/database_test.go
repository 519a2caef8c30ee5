package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	_, err = db.Exec("INSERT INTO user (username, password_hash) VALUES ('alice', 'x')")
	assert.NoError(t, err)
}

func TestResetDestroysData(t *testing.T) {
	db, err := New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	require.NoError(t, Migrate(db))
	_, err = db.Exec("INSERT INTO user (username, password_hash) VALUES ('alice', 'x')")
	require.NoError(t, err)

	require.NoError(t, Reset(db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM user").Scan(&count))
	assert.Zero(t, count)
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	require.NoError(t, Migrate(db))

	// No user with id 99 exists, so the insert must be rejected.
	_, err = db.Exec("INSERT INTO post (title, body, author_id) VALUES ('t', '', 99)")
	assert.Error(t, err)
}

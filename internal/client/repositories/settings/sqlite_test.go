package settings

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE settings (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return db
}

func TestSetGet_Overwrite(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyLastPullAt, []byte("t1")))
	require.NoError(t, repo.Set(ctx, KeyLastPullAt, []byte("t2")))

	got, err := repo.Get(ctx, KeyLastPullAt)
	require.NoError(t, err)
	assert.Equal(t, []byte("t2"), got)
}

func TestGet_AbsentKey(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	got, err := repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteAndClear(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyUserID, []byte("u1")))
	require.NoError(t, repo.Set(ctx, KeyToken, []byte("tok")))

	require.NoError(t, repo.Delete(ctx, KeyUserID))
	got, err := repo.Get(ctx, KeyUserID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Clear(ctx))
	got, err = repo.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Nil(t, got)
}

package prefs

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	goose.SetLogger(goose.NopLogger())
	require.NoError(t, RunMigrations(context.Background(), db))
	return db
}

func TestSQLiteRepository_SetGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	v, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, repo.Set(ctx, "k", []byte(`"one"`)))
	require.NoError(t, repo.Set(ctx, "k", []byte(`"two"`)))

	v, err = repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"two"`, string(v))
}

func TestSQLiteRepository_ListDeleteClear(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	require.NoError(t, repo.Set(ctx, "a", []byte("1")))
	require.NoError(t, repo.Set(ctx, "b", []byte("2")))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": []byte("1"), "b": []byte("2")}, all)

	require.NoError(t, repo.Delete(ctx, "a"))
	require.NoError(t, repo.Delete(ctx, "a"))
	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Clear(ctx))
	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteRepository_GetError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM preferences").
		WithArgs("k").
		WillReturnError(errors.New("disk I/O error"))

	_, err = NewSQLiteRepository(db).Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get preference[k]")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInitDatabase(t *testing.T) {
	ctx := context.Background()
	goose.SetLogger(goose.NopLogger())

	repo, db, err := InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, repo.Set(ctx, "k", []byte("1")))
	v, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "1", string(v))
}

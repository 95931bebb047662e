package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/hutchfm/hutch/database/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "creds.db")
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlite.Migrate(t.Context(), db, "users"))
	return db
}

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewRepo(db, "users")

	created, err := repo.Register(t.Context(), "alice", "hash-a")
	require.NoError(t, err)
	require.True(t, created)
}

func TestRegisterDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewRepo(db, "users")

	created, err := repo.Register(t.Context(), "alice", "hash-a")
	require.NoError(t, err)
	require.True(t, created)

	created, err = repo.Register(t.Context(), "alice", "hash-b")
	require.NoError(t, err)
	require.False(t, created)

	ok, err := repo.Verify(t.Context(), "alice", "hash-a")
	require.NoError(t, err)
	require.True(t, ok, "original credentials must survive a duplicate register")
}

func TestVerify(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewRepo(db, "users")

	created, err := repo.Register(t.Context(), "bob", "hash-b")
	require.NoError(t, err)
	require.True(t, created)

	ok, err := repo.Verify(t.Context(), "bob", "hash-b")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Verify(t.Context(), "bob", "wrong")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyUnknownUser(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewRepo(db, "users")

	ok, err := repo.Verify(t.Context(), "nobody", "hash")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, sqlite.Migrate(t.Context(), db, "users"))

	repo := sqlite.NewRepo(db, "users")
	created, err := repo.Register(t.Context(), "carol", "hash-c")
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, sqlite.Migrate(t.Context(), db, "users"))

	ok, err := repo.Verify(t.Context(), "carol", "hash-c")
	require.NoError(t, err)
	require.True(t, ok, "re-running migrations must not drop data")
}

func TestDropTable(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, sqlite.DropTable(t.Context(), db, "users"))

	repo := sqlite.NewRepo(db, "users")
	_, err := repo.Verify(t.Context(), "alice", "hash")
	require.Error(t, err)
}

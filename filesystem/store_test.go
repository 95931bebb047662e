package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hutchfm/hutch"
	"github.com/hutchfm/hutch/filesystem"
)

func newStore(t *testing.T) (*filesystem.Store, string) {
	t.Helper()
	dir := t.TempDir()
	root, err := os.OpenRoot(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })
	return filesystem.NewStore(root, dir), dir
}

func TestStore_EnsureUserDir(t *testing.T) {
	store, dir := newStore(t)

	require.NoError(t, store.EnsureUserDir("alice"))

	info, err := os.Stat(filepath.Join(dir, "alice"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent.
	assert.NoError(t, store.EnsureUserDir("alice"))
}

func TestStore_ListDir(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, store.EnsureUserDir("alice"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "alice", "docs"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice", "todo.txt"), []byte("x"), 0o644))

	view, err := store.ListDir("alice", "/")

	require.NoError(t, err)
	assert.Equal(t, "/", view.Cwd)
	assert.Equal(t, "/", view.Parent)
	assert.Equal(t, []string{"docs"}, view.Dirs)
	assert.Equal(t, []string{"todo.txt"}, view.Files)
}

func TestStore_ListDir_Nested(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, store.EnsureUserDir("alice"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "alice", "a", "b"), 0o750))

	view, err := store.ListDir("alice", "/a/b")

	require.NoError(t, err)
	assert.Equal(t, "/a/b", view.Cwd)
	assert.Equal(t, "/a", view.Parent)
	assert.Empty(t, view.Dirs)
	assert.Empty(t, view.Files)
}

func TestStore_ListDir_NotFound(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.EnsureUserDir("alice"))

	_, err := store.ListDir("alice", "/missing")

	assert.ErrorIs(t, err, hutch.ErrNotFound)
}

func TestStore_ListDir_TraversalRejected(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.EnsureUserDir("alice"))
	require.NoError(t, store.EnsureUserDir("bob"))

	_, err := store.ListDir("alice", "/../bob")

	assert.ErrorIs(t, err, hutch.ErrInvalidInput)
}

func TestStore_MkdirAndRemoveDir(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, store.EnsureUserDir("alice"))

	require.NoError(t, store.Mkdir("alice", "/", "photos"))
	info, err := os.Stat(filepath.Join(dir, "alice", "photos"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, store.RemoveDir("alice", "/photos"))
	_, err = os.Stat(filepath.Join(dir, "alice", "photos"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_Mkdir_MissingParent(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.EnsureUserDir("alice"))

	assert.Error(t, store.Mkdir("alice", "/no/such/parent", "x"))
}

func TestStore_RemoveDir_NonEmpty(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, store.EnsureUserDir("alice"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "alice", "full"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice", "full", "f.txt"), []byte("x"), 0o644))

	assert.Error(t, store.RemoveDir("alice", "/full"))
}

func TestStore_RemoveFile(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, store.EnsureUserDir("alice"))
	target := filepath.Join(dir, "alice", "junk.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	require.NoError(t, store.RemoveFile("alice", "/junk.txt"))
	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_RemoveFile_OnDirectory(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, store.EnsureUserDir("alice"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "alice", "d"), 0o750))

	assert.ErrorIs(t, store.RemoveFile("alice", "/d"), hutch.ErrInvalidInput)
}

func TestStore_IsFile(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, store.EnsureUserDir("alice"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice", "f.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "alice", "d"), 0o750))

	assert.True(t, store.IsFile("alice", "/f.txt"))
	assert.False(t, store.IsFile("alice", "/d"))
	assert.False(t, store.IsFile("alice", "/absent"))
	assert.False(t, store.IsFile("alice", "/../alice/f.txt"))
}

func TestStore_AbsPath(t *testing.T) {
	store, dir := newStore(t)

	abs, err := store.AbsPath("alice", "/docs/", "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "alice", "docs", "notes.txt"), abs)

	_, err = store.AbsPath("alice", "/../bob/secret")
	assert.ErrorIs(t, err, hutch.ErrInvalidInput)
}

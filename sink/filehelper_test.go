package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileHelper_WriteFlushSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	h := NewOSFileHelper()
	require.NoError(t, h.Open(path, false))
	defer h.Close()

	_, err := h.Write([]byte("hello"))
	require.NoError(t, err)

	// Size flushes first, so it sees the buffered bytes.
	size, err := h.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestOSFileHelper_OpenAppendsByDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0644))

	h := NewOSFileHelper()
	require.NoError(t, h.Open(path, false))
	_, err := h.Write([]byte("two"))
	require.NoError(t, err)
	require.NoError(t, h.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "onetwo", string(data))
}

func TestOSFileHelper_ReopenTruncates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	h := NewOSFileHelper()
	require.NoError(t, h.Open(path, false))
	_, err := h.Write([]byte("content"))
	require.NoError(t, err)
	require.NoError(t, h.Close())

	require.NoError(t, h.Reopen(true))
	defer h.Close()

	size, err := h.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestOSFileHelper_ReopenBeforeOpen(t *testing.T) {
	h := NewOSFileHelper()
	assert.ErrorIs(t, h.Reopen(false), ErrNotOpen)
}

func TestOSFileHelper_WriteAfterClose(t *testing.T) {
	dir := t.TempDir()

	h := NewOSFileHelper()
	require.NoError(t, h.Open(filepath.Join(dir, "app.log"), false))
	require.NoError(t, h.Close())

	_, err := h.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrNotOpen)

	_, err = h.Size()
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestOSFileHelper_CloseIdempotent(t *testing.T) {
	dir := t.TempDir()

	h := NewOSFileHelper()
	require.NoError(t, h.Open(filepath.Join(dir, "app.log"), false))
	require.NoError(t, h.Close())
	assert.NoError(t, h.Close())
}

func TestOSFileHelper_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "app.log")

	h := NewOSFileHelper()
	require.NoError(t, h.Open(path, false))
	require.NoError(t, h.Close())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestOSFileHelper_ExistsRemoveRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.log")
	dst := filepath.Join(dir, "dst.log")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0644))

	h := NewOSFileHelper()
	assert.True(t, h.Exists(src))
	assert.False(t, h.Exists(dst))

	require.NoError(t, h.Rename(src, dst))
	assert.False(t, h.Exists(src))
	assert.True(t, h.Exists(dst))

	require.NoError(t, h.Remove(dst))
	assert.False(t, h.Exists(dst))
}

func TestOSFileHelper_OpenMissingDirErrors(t *testing.T) {
	// A file path whose parent cannot be created surfaces the OS error.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	h := NewOSFileHelper()
	err := h.Open(filepath.Join(blocker, "app.log"), false)
	assert.Error(t, err)
}

package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir(), 10)
	require.NoError(t, err)
	return store
}

func TestSaveAndRead(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	name, err := store.Save([]byte("hello"), ".pdf")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(name, ".pdf"))
	require.NotContains(t, name, "/")

	data, err := store.Read(name)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)
}

func TestSave_GeneratedNamesDiffer(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	first, err := store.Save([]byte("a"), ".txt")
	require.NoError(t, err)
	second, err := store.Save([]byte("a"), ".txt")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestSave_WeirdExtensionFallsBack(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	name, err := store.Save([]byte("x"), "../../etc/passwd")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(name, ".dat"))
	require.NotContains(t, name, "..")
}

func TestSave_TooLargeWritesNothing(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store, err := NewDiskStore(dir, 1)
	require.NoError(t, err)

	_, err = store.Save(make([]byte, 2*1024*1024), ".pdf")
	require.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRead_Missing(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	_, err := store.Read("1234-deadbeef.pdf")
	require.ErrorIs(t, err, ErrBlobNotFound)
}

func TestRead_RejectsTraversal(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	for _, name := range []string{"", "../secret", "a/b.pdf", `a\b.pdf`, "..", "foo..bar"} {
		_, err := store.Read(name)
		require.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	name, err := store.Save([]byte("bye"), ".txt")
	require.NoError(t, err)

	require.NoError(t, store.Delete(name))
	require.NoError(t, store.Delete(name))

	_, err = store.Read(name)
	require.ErrorIs(t, err, ErrBlobNotFound)
}

func TestAllowedContentType(t *testing.T) {
	t.Parallel()

	allowed := []string{
		"application/pdf",
		"APPLICATION/PDF",
		"text/plain; charset=utf-8",
		"text/markdown",
		"image/png",
	}
	for _, ct := range allowed {
		require.True(t, AllowedContentType(ct), ct)
	}

	denied := []string{
		"",
		"application/octet-stream",
		"application/x-msdownload",
		"video/mp4",
		"text/html",
	}
	for _, ct := range denied {
		require.False(t, AllowedContentType(ct), ct)
	}
}

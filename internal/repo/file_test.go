package repo_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/contactbook/internal/domain"
	"github.com/pkordes/contactbook/internal/repo"
	"github.com/pkordes/contactbook/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileStore_Save_RefusedNameKeepsFile(t *testing.T) {
	const before = "Ann, 1112223333, 03.01.1990\n"
	path := testutil.ContactsFile(t, before)
	store := repo.NewFileStore(path, discardLogger())
	dir, err := store.Load(context.Background())
	require.NoError(t, err)
	smith, _ := domain.NewRecord("Smith,John")
	require.NoError(t, dir.Add(smith))

	err = store.Save(context.Background(), dir)

	require.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, domain.ErrNameSeparator)
	assert.Equal(t, before, testutil.ReadFile(t, path), "file is not truncated")
}

func TestFileStore_Load_MissingFile(t *testing.T) {
	store := repo.NewFileStore(testutil.ContactsFile(t, ""), discardLogger())

	dir, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Zero(t, dir.Len())
}

func TestFileStore_Load(t *testing.T) {
	path := testutil.ContactsFile(t, "Ann, 1112223333, 03.01.1990\nBob, ,\n")
	store := repo.NewFileStore(path, discardLogger())

	dir, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())
	assert.Equal(t, "03.01.1990", dir.Find("Ann").ShowBirthday())
}

func TestFileStore_Load_LogsWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	path := testutil.ContactsFile(t, "Ann, 12345, 03.01.1990\n")
	store := repo.NewFileStore(path, logger)

	dir, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "03.01.1990", dir.Find("Ann").ShowBirthday())
	assert.Contains(t, buf.String(), "skipped invalid contact data")
	assert.Contains(t, buf.String(), "12345")
}

func TestFileStore_Load_Unreadable(t *testing.T) {
	// A directory cannot be decoded as a contacts file.
	store := repo.NewFileStore(t.TempDir(), discardLogger())

	_, err := store.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestFileStore_SaveLoad_RoundTrip(t *testing.T) {
	path := testutil.ContactsFile(t, "")
	store := repo.NewFileStore(path, discardLogger())
	want := sampleDirectory(t)

	require.NoError(t, store.Save(context.Background(), want))
	got, err := store.Load(context.Background())

	require.NoError(t, err)
	assertSameDirectory(t, want, got)
}

func TestFileStore_Save_Rewrites(t *testing.T) {
	path := testutil.ContactsFile(t, "Old, 1112223333,\nGone, ,\n")
	store := repo.NewFileStore(path, discardLogger())
	dir := domain.NewDirectory()
	rec, _ := domain.NewRecord("New")
	require.NoError(t, dir.Add(rec))

	require.NoError(t, store.Save(context.Background(), dir))

	assert.Equal(t, "New, ,\n", testutil.ReadFile(t, path))
}

func TestFileStore_Save_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "contacts.txt")
	store := repo.NewFileStore(path, discardLogger())

	err := store.Save(context.Background(), domain.NewDirectory())

	assert.ErrorIs(t, err, domain.ErrStorage)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

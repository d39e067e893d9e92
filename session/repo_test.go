package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemoryRepo(t *testing.T) {
	repo := NewInMemoryRepo()

	_, err := repo.Get("dev")
	require.ErrorIs(t, err, ErrRecordNotFound)

	require.Error(t, repo.Upsert("", Record{Token: "x"}))

	require.NoError(t, repo.Upsert("dev", Record{Token: "one"}))
	require.NoError(t, repo.Upsert("dev", Record{Token: "two"}))
	rec, err := repo.Get("dev")
	require.NoError(t, err)
	require.Equal(t, "two", rec.Token)

	require.NoError(t, repo.Delete("dev"))
	require.NoError(t, repo.Delete("dev"))
	_, err = repo.Get("dev")
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestFileRepo_SurvivesReload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	repo, err := OpenFileRepo(dir)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert("dev-1", Record{Token: "tok-1", UpdatedAt: now}))
	require.NoError(t, repo.Upsert("dev-2", Record{Token: "tok-2", UpdatedAt: now}))
	require.NoError(t, repo.Delete("dev-2"))

	info, err := os.Stat(repo.Path())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reopened, err := OpenFileRepo(dir)
	require.NoError(t, err)
	rec, err := reopened.Get("dev-1")
	require.NoError(t, err)
	require.Equal(t, "tok-1", rec.Token)
	require.True(t, now.Equal(rec.UpdatedAt))

	_, err = reopened.Get("dev-2")
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestOpenFileRepo_RejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TokenFile), []byte("{not json"), 0600))

	_, err := OpenFileRepo(dir)
	require.Error(t, err)
}

func TestOpenFileRepo_NullFileAcceptsWrites(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TokenFile), []byte("null"), 0600))

	repo, err := OpenFileRepo(dir)
	require.NoError(t, err)
	_, err = repo.Get("dev")
	require.ErrorIs(t, err, ErrRecordNotFound)

	require.NoError(t, repo.Upsert("dev", Record{Token: "tok"}))
	rec, err := repo.Get("dev")
	require.NoError(t, err)
	require.Equal(t, "tok", rec.Token)
}

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merc/internal/domain"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository_GetMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), "/src")

	assert.ErrorIs(t, err, domain.ErrRepoNotInitialized)
}

func TestSQLiteRepository_SaveAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	state := domain.NewRepoState("/src")
	state.Initialized = true
	state.ShadowRepoRoot = "/src/.hg/merc"
	state.ShadowRootSources["h0"] = "a1"
	state.Sync = domain.SyncState{Clock: "h1", IsDirty: true}
	require.NoError(t, repo.Save(ctx, state))

	got, err := repo.Get(ctx, "/src")

	require.NoError(t, err)
	assert.True(t, got.Initialized)
	assert.Equal(t, "/src/.hg/merc", got.ShadowRepoRoot)
	assert.Equal(t, map[string]string{"h0": "a1"}, got.ShadowRootSources)
	assert.Equal(t, domain.SyncState{Clock: "h1", IsDirty: true}, got.Sync)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestSQLiteRepository_SaveReplacesShadowRoots(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	state := domain.NewRepoState("/src")
	state.ShadowRootSources["h0"] = "a1"
	state.ShadowRootSources["h5"] = "a2"
	require.NoError(t, repo.Save(ctx, state))

	delete(state.ShadowRootSources, "h0")
	state.Sync.Clock = "h6"
	require.NoError(t, repo.Save(ctx, state))

	got, err := repo.Get(ctx, "/src")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"h5": "a2"}, got.ShadowRootSources)
	assert.Equal(t, "h6", got.Sync.Clock)
}

func TestSQLiteRepository_RepositoriesAreIsolated(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	one := domain.NewRepoState("/one")
	one.ShadowRootSources["h0"] = "a1"
	two := domain.NewRepoState("/two")
	two.ShadowRootSources["h0"] = "b1"
	require.NoError(t, repo.Save(ctx, one))
	require.NoError(t, repo.Save(ctx, two))

	got, err := repo.Get(ctx, "/one")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ShadowRootSources["h0"])
}

func TestSQLiteRepository_Delete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	state := domain.NewRepoState("/src")
	state.ShadowRootSources["h0"] = "a1"
	require.NoError(t, repo.Save(ctx, state))

	require.NoError(t, repo.Delete(ctx, "/src"))

	_, err := repo.Get(ctx, "/src")
	assert.ErrorIs(t, err, domain.ErrRepoNotInitialized)
	assert.ErrorIs(t, repo.Delete(ctx, "/src"), domain.ErrRepoNotInitialized)
}

func TestWithRetry_RetriesBusy(t *testing.T) {
	attempts := 0
	err := withRetry(func() error {
		attempts++
		if attempts < 2 {
			return sqlite3.Error{Code: sqlite3.ErrBusy}
		}
		return nil
	}, 3)

	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestWithRetry_OtherErrorsReturnImmediately(t *testing.T) {
	attempts := 0
	boom := errors.New("boom")
	err := withRetry(func() error {
		attempts++
		return boom
	}, 3)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

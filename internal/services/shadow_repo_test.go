package services

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"merc/internal/adapters/fsutil"
	"merc/internal/domain"
	portsmocks "merc/internal/ports/mocks"
)

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, fsutil.WriteFile(fs, path, []byte(content)))
	}
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

// expectPublicCommit sets up the add/commit/id/phase sequence for one public commit
func expectPublicCommit(vcs *portsmocks.MockVersionControl, calls *callLog, message, rev string) {
	vcs.On("Add", mock.Anything, destRoot, []string{"."}).Return(nil).Once().Run(calls.record("add"))
	vcs.On("Commit", mock.Anything, destRoot, message).Return(nil).Once().Run(calls.record("commit %s", message))
	vcs.On("CurrentRevision", mock.Anything, destRoot).Return(rev, nil).Once().Run(calls.record("id"))
	vcs.On("SetPhase", mock.Anything, destRoot, domain.PhasePublic, rev).Return(nil).Once().Run(calls.record("phase %s", rev))
}

func TestInitShadowRepo_EmptyDependenciesUsesSeedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{srcRoot + "/.arcconfig": `{"project":"x"}`})
	vcs := portsmocks.NewMockVersionControl(t)
	var calls callLog

	vcs.On("Init", mock.Anything, destRoot).Return(nil).Once().Run(calls.record("init"))
	expectPublicCommit(vcs, &calls, initialCommitMessage, "r0")
	expectPublicCommit(vcs, &calls, mergeBaseCommitMessage, "r1")

	dest, err := NewShadowRepoService(fs, vcs, ".arcconfig").InitShadowRepo(context.Background(), srcRoot, domain.FileSet{})

	require.NoError(t, err)
	assert.Equal(t, destRoot, dest)
	assert.Equal(t, callLog{
		"init",
		"add", "commit Initial commit", "id", "phase r0",
		"add", "commit MergeBase commit", "id", "phase r1",
	}, calls)
	assert.Equal(t, `{"project":"x"}`, readFile(t, fs, destRoot+"/.arcconfig"))
	assert.Equal(t, "", readFile(t, fs, destRoot+"/.hgignore"))
}

func TestInitShadowRepo_CopiesBaseFilesAndIgnoreFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		srcRoot + "/.hg/hgrc":          "[paths]\ndefault = ssh://hg/repo\n",
		srcRoot + "/.hgignore":         "syntax: glob\n*.o\n",
		srcRoot + "/lib/.hgignore":     "gen/\n",
		srcRoot + "/lib/a.go":          "package lib",
		srcRoot + "/lib/sub/b.go":      "package sub",
		srcRoot + "/other/.hgignore":   "not needed\n",
		srcRoot + "/lib/unrelated.txt": "skip",
	})
	vcs := portsmocks.NewMockVersionControl(t)
	var calls callLog
	vcs.On("Init", mock.Anything, destRoot).Return(nil).Once()
	expectPublicCommit(vcs, &calls, initialCommitMessage, "r0")
	expectPublicCommit(vcs, &calls, mergeBaseCommitMessage, "r1")

	_, err := NewShadowRepoService(fs, vcs, ".arcconfig").
		InitShadowRepo(context.Background(), srcRoot, domain.NewFileSet("lib/a.go", "lib/sub/b.go"))

	require.NoError(t, err)
	assert.Equal(t, "package lib", readFile(t, fs, destRoot+"/lib/a.go"))
	assert.Equal(t, "package sub", readFile(t, fs, destRoot+"/lib/sub/b.go"))
	assert.Equal(t, "syntax: glob\n*.o\n", readFile(t, fs, destRoot+"/.hgignore"))
	assert.Equal(t, "gen/\n", readFile(t, fs, destRoot+"/lib/.hgignore"))
	assert.Contains(t, readFile(t, fs, destRoot+"/.hg/hgrc"), "ssh://hg/repo")

	for _, path := range []string{"/other/.hgignore", "/lib/unrelated.txt", "/.arcconfig"} {
		ok, err := fsutil.Exists(fs, destRoot+path)
		require.NoError(t, err)
		assert.False(t, ok, path)
	}
}

func TestInitShadowRepo_MissingBaseFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	vcs := portsmocks.NewMockVersionControl(t)
	var calls callLog
	vcs.On("Init", mock.Anything, destRoot).Return(nil).Once()
	expectPublicCommit(vcs, &calls, initialCommitMessage, "r0")

	_, err := NewShadowRepoService(fs, vcs, ".arcconfig").
		InitShadowRepo(context.Background(), srcRoot, domain.NewFileSet("gone.txt"))

	assert.ErrorIs(t, err, domain.ErrFileCopy)
	assert.ErrorIs(t, err, domain.ErrInitialization)
	vcs.AssertNotCalled(t, "Commit", mock.Anything, destRoot, mergeBaseCommitMessage)
}

func TestInitShadowRepo_InitFails(t *testing.T) {
	vcs := portsmocks.NewMockVersionControl(t)
	vcs.On("Init", mock.Anything, destRoot).Return(domain.ErrRepoInit)

	_, err := NewShadowRepoService(afero.NewMemMapFs(), vcs, ".arcconfig").
		InitShadowRepo(context.Background(), srcRoot, domain.FileSet{})

	assert.ErrorIs(t, err, domain.ErrRepoInit)
}

func TestInitShadowRepo_CommitFailsWithoutSeedFile(t *testing.T) {
	vcs := portsmocks.NewMockVersionControl(t)
	var calls callLog
	vcs.On("Init", mock.Anything, destRoot).Return(nil).Once()
	expectPublicCommit(vcs, &calls, initialCommitMessage, "r0")
	vcs.On("Add", mock.Anything, destRoot, []string{"."}).Return(nil).Once()
	vcs.On("Commit", mock.Anything, destRoot, mergeBaseCommitMessage).Return(domain.ErrCommit).Once()

	_, err := NewShadowRepoService(afero.NewMemMapFs(), vcs, ".arcconfig").
		InitShadowRepo(context.Background(), srcRoot, domain.FileSet{})

	assert.ErrorIs(t, err, domain.ErrCommit)
	vcs.AssertNotCalled(t, "SetPhase", mock.Anything, destRoot, domain.PhasePublic, "r1")
}

func TestImplicitDirs(t *testing.T) {
	dirs := implicitDirs(domain.NewFileSet("a/b/c.txt", "a/d.txt", "top.txt"))

	assert.Equal(t, []string{"", "a", "a/b"}, dirs)
}

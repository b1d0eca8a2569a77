package harness

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// RequireHg skips the test when no hg executable is on PATH.
func RequireHg(tb testing.TB) {
	tb.Helper()
	if _, err := exec.LookPath("hg"); err != nil {
		tb.Skip("hg not found on PATH")
	}
}

// TestHgRepo is a throwaway Mercurial repository with one public commit.
//
// Setup structure:
//
//	tb.TempDir()/
//	└── repo/         <- hg init, README public
type TestHgRepo struct {
	Path string
	env  *TestEnvironment
	tb   testing.TB
}

// NewTestHgRepo creates a repository whose first commit is public.
func NewTestHgRepo(tb testing.TB, env *TestEnvironment) *TestHgRepo {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "repo")
	r := &TestHgRepo{Path: path, env: env, tb: tb}

	r.Run("init", path)
	r.Commit("README.md", "# Test Repo\n", "Initial commit")
	r.Run("phase", "--public", ".")

	return r
}

// Commit writes content to file and commits it as a draft.
func (r *TestHgRepo) Commit(file, content, message string) {
	r.tb.Helper()

	fullPath := filepath.Join(r.Path, file)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		r.tb.Fatalf("Failed to create directory for %s: %v", file, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		r.tb.Fatalf("Failed to write %s: %v", file, err)
	}
	r.Run("add", file)
	r.Run("commit", "-m", message)
}

// Run executes an hg command in the repository and returns trimmed stdout.
func (r *TestHgRepo) Run(args ...string) string {
	r.tb.Helper()

	cmd := exec.Command("hg", args...)
	if _, err := os.Stat(r.Path); err == nil {
		cmd.Dir = r.Path
	}
	cmd.Env = append(r.env.Environ(), "HGPLAIN=1")
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.tb.Fatalf("hg %v failed: %v\nOutput: %s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

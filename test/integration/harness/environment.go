package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnvironment provides an isolated test environment with its own MERC_HOME.
type TestEnvironment struct {
	MercHome string
	extraEnv map[string]string
}

// NewTestEnvironment creates an isolated test environment with a temp MERC_HOME.
// The temp directory is automatically cleaned up when the test completes.
func NewTestEnvironment(tb testing.TB) *TestEnvironment {
	tb.Helper()

	return &TestEnvironment{
		MercHome: tb.TempDir(),
		extraEnv: make(map[string]string),
	}
}

// Environ returns environment variables configured for test isolation.
// It filters out MERC_* variables and sets:
//   - MERC_HOME to the temp directory
//   - MERC_DEBUG to empty string (disables debug logging)
//   - HGRCPATH to empty string and HGUSER to a fixed author
func (e *TestEnvironment) Environ() []string {
	env := make([]string, 0, len(os.Environ())+4+len(e.extraEnv))

	overrideKeys := map[string]bool{
		"HGRCPATH": true,
		"HGUSER":   true,
	}
	for k := range e.extraEnv {
		overrideKeys[k] = true
	}

	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "MERC_") || overrideKeys[key] {
			continue
		}
		env = append(env, kv)
	}

	env = append(env,
		"MERC_HOME="+e.MercHome,
		"MERC_DEBUG=",
		"HGRCPATH=",
		"HGUSER=Test User <test@example.com>",
	)

	for k, v := range e.extraEnv {
		env = append(env, k+"="+v)
	}

	return env
}

// DBPath returns the path to the test database.
func (e *TestEnvironment) DBPath() string {
	return filepath.Join(e.MercHome, "state.db")
}

// SetEnv sets an additional environment variable for this test environment.
func (e *TestEnvironment) SetEnv(key, value string) {
	e.extraEnv[key] = value
}

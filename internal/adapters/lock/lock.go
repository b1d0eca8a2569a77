// Package lock serializes merc commands per source repository with advisory file locks.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"merc/internal/domain"
	"merc/internal/logging"
	"merc/internal/ports"
)

// FileLocker implements ports.RepoLocker with one lock file per repository under dir
type FileLocker struct {
	dir string
}

// Verify interface compliance at compile time
var _ ports.RepoLocker = (*FileLocker)(nil)

// NewFileLocker creates a FileLocker keeping its lock files in dir
func NewFileLocker(dir string) *FileLocker {
	return &FileLocker{dir: dir}
}

// Path returns the lock file used for sourceRepoRoot
func (l *FileLocker) Path(sourceRepoRoot string) string {
	name := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+sourceRepoRoot)).String()
	return filepath.Join(l.dir, name+".lock")
}

// Lock takes the lock for sourceRepoRoot without waiting.
// Returns domain.ErrRepoLocked when another process holds it.
func (l *FileLocker) Lock(sourceRepoRoot string) (func() error, error) {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	path := l.Path(sourceRepoRoot)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := lockFile(file); err != nil {
		file.Close()
		if errors.Is(err, errWouldBlock) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRepoLocked, sourceRepoRoot)
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	logging.Logger.Debug("Repository locked", "repo", sourceRepoRoot, "lock", path)

	return func() error {
		defer file.Close()
		if err := unlockFile(file); err != nil {
			return fmt.Errorf("failed to unlock %s: %w", path, err)
		}
		logging.Logger.Debug("Repository unlocked", "repo", sourceRepoRoot)
		return nil
	}, nil
}

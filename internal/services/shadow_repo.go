package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"merc/internal/adapters/fsutil"
	"merc/internal/config"
	"merc/internal/domain"
	"merc/internal/logging"
	"merc/internal/ports"
)

const (
	initialCommitMessage   = "Initial commit"
	mergeBaseCommitMessage = "MergeBase commit"
)

// ShadowRepoService creates shadow repositories seeded with the files a subtree depends on
type ShadowRepoService struct {
	fs       afero.Fs
	seedFile string
	vcs      ports.VersionControl
}

// NewShadowRepoService creates a new ShadowRepoService.
// seedFile is copied when a subtree has no base file dependencies.
func NewShadowRepoService(fs afero.Fs, vcs ports.VersionControl, seedFile string) *ShadowRepoService {
	return &ShadowRepoService{
		fs:       fs,
		seedFile: seedFile,
		vcs:      vcs,
	}
}

// InitShadowRepo creates the shadow repository of sourceRepoRoot and returns its path.
// The new repository has two public commits: one carrying the ignore files and one carrying baseFiles.
func (s *ShadowRepoService) InitShadowRepo(ctx context.Context, sourceRepoRoot string, baseFiles domain.FileSet) (string, error) {
	dest := config.ShadowRepoPath(sourceRepoRoot)
	logging.Logger.Info("Initializing shadow repository", "source", sourceRepoRoot, "dest", dest, "files", len(baseFiles))

	if err := s.vcs.Init(ctx, dest); err != nil {
		return "", err
	}

	if err := s.copyRepoConfig(sourceRepoRoot, dest); err != nil {
		return "", err
	}

	dirs := implicitDirs(baseFiles)
	for _, dir := range dirs {
		if err := fsutil.MkdirAll(s.fs, filepath.Join(dest, dir)); err != nil {
			return "", fmt.Errorf("%w %s: %w", domain.ErrDirectoryCreate, dir, err)
		}
	}

	if err := s.copyIgnoreFiles(ctx, sourceRepoRoot, dest, dirs); err != nil {
		return "", err
	}
	if err := s.commitPublic(ctx, dest, initialCommitMessage); err != nil {
		return "", err
	}

	files := baseFiles.Sorted()
	if len(files) == 0 {
		logging.Logger.Info("No base files, using seed file", "seed", s.seedFile)
		ok, err := fsutil.Exists(s.fs, filepath.Join(sourceRepoRoot, s.seedFile))
		if err != nil {
			return "", fmt.Errorf("%w %s: %w", domain.ErrFileCopy, s.seedFile, err)
		}
		if ok {
			files = []string{s.seedFile}
		} else {
			logging.Logger.Warn("Seed file not found", "seed", s.seedFile, "repo", sourceRepoRoot)
		}
	}

	if err := s.copyFiles(ctx, sourceRepoRoot, dest, files); err != nil {
		return "", err
	}
	if err := s.commitPublic(ctx, dest, mergeBaseCommitMessage); err != nil {
		return "", err
	}

	logging.Logger.Info("Shadow repository initialized", "dest", dest)
	return dest, nil
}

func (s *ShadowRepoService) copyRepoConfig(sourceRepoRoot, dest string) error {
	src := filepath.Join(sourceRepoRoot, config.RepoConfigFile)
	ok, err := fsutil.Exists(s.fs, src)
	if err != nil {
		return fmt.Errorf("%w %s: %w", domain.ErrFileCopy, src, err)
	}
	if !ok {
		logging.Logger.Debug("No repository config to copy", "path", src)
		return nil
	}
	if err := fsutil.CopyPath(s.fs, src, filepath.Join(dest, config.RepoConfigFile)); err != nil {
		return fmt.Errorf("%w %s: %w", domain.ErrFileCopy, src, err)
	}
	return nil
}

// copyIgnoreFiles copies every .hgignore found in dirs, or writes an empty one when there are none
func (s *ShadowRepoService) copyIgnoreFiles(ctx context.Context, sourceRepoRoot, dest string, dirs []string) error {
	var (
		mu    sync.Mutex
		found = domain.FileSet{}
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, dir := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rel := filepath.Join(dir, config.IgnoreFileName)
			ok, err := fsutil.Exists(s.fs, filepath.Join(sourceRepoRoot, rel))
			if err != nil {
				return fmt.Errorf("%w %s: %w", domain.ErrFileCopy, rel, err)
			}
			if ok {
				mu.Lock()
				found.Add(rel)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(found) == 0 {
		logging.Logger.Debug("No ignore files found, writing an empty one")
		if err := fsutil.WriteFile(s.fs, filepath.Join(dest, config.IgnoreFileName), nil); err != nil {
			return fmt.Errorf("%w %s: %w", domain.ErrFileCopy, config.IgnoreFileName, err)
		}
		return nil
	}

	return s.copyFiles(ctx, sourceRepoRoot, dest, found.Sorted())
}

// copyFiles copies repository-relative files concurrently; the first failure cancels the rest
func (s *ShadowRepoService) copyFiles(ctx context.Context, sourceRepoRoot, dest string, files []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			logging.Logger.Debug("Copying base file", "file", file)
			if err := fsutil.CopyPath(s.fs, filepath.Join(sourceRepoRoot, file), filepath.Join(dest, file)); err != nil {
				return fmt.Errorf("%w %s: %w", domain.ErrFileCopy, file, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// commitPublic commits everything in repoRoot and makes the result public
func (s *ShadowRepoService) commitPublic(ctx context.Context, repoRoot, message string) error {
	if err := s.vcs.Add(ctx, repoRoot, "."); err != nil {
		return fmt.Errorf("%w %q: %w", domain.ErrCommit, message, err)
	}
	if err := s.vcs.Commit(ctx, repoRoot, message); err != nil {
		return err
	}
	rev, err := s.vcs.CurrentRevision(ctx, repoRoot)
	if err != nil {
		return fmt.Errorf("%w %q: %w", domain.ErrCommit, message, err)
	}
	return s.vcs.SetPhase(ctx, repoRoot, domain.PhasePublic, rev)
}

// implicitDirs returns the root ("") and every ancestor directory of files, sorted
func implicitDirs(files domain.FileSet) []string {
	dirs := domain.NewFileSet("")
	for file := range files {
		for dir := filepath.Dir(file); dir != "." && dir != "/" && dir != ""; dir = filepath.Dir(dir) {
			dirs.Add(dir)
		}
	}
	return dirs.Sorted()
}

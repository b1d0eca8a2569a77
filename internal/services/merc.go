package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"merc/internal/adapters/fsutil"
	"merc/internal/config"
	"merc/internal/domain"
	"merc/internal/logging"
	"merc/internal/ports"
)

// MercService runs the break, unbreak and sync pipelines
type MercService struct {
	fs       afero.Fs
	locker   ports.RepoLocker
	prompter ports.Prompter
	resolver ports.DependencyResolver
	shadow   *ShadowRepoService
	state    ports.StateRepository
	subtree  *SubtreeService
	sync     *SyncService
	vcs      ports.VersionControl
}

// NewMercService creates a new MercService
func NewMercService(
	fs afero.Fs,
	vcs ports.VersionControl,
	state ports.StateRepository,
	locker ports.RepoLocker,
	prompter ports.Prompter,
	resolver ports.DependencyResolver,
	seedFile string,
) *MercService {
	return &MercService{
		fs:       fs,
		locker:   locker,
		prompter: prompter,
		resolver: resolver,
		shadow:   NewShadowRepoService(fs, vcs, seedFile),
		state:    state,
		subtree:  NewSubtreeService(vcs),
		sync:     NewSyncService(fs, vcs),
		vcs:      vcs,
	}
}

// BreakParams contains parameters for Break
type BreakParams struct {
	Dir        string
	KeepSource bool
}

// BreakResult is the outcome of Break
type BreakResult struct {
	BaseFiles      domain.FileSet
	ShadowRepoRoot string
	ShadowTree     *domain.ShadowTree
	SourceRepoRoot string
	SyncedFiles    int
}

// Break moves the draft subtree of the working copy into a new shadow repository and
// mirrors its working copy back into the source.
func (s *MercService) Break(ctx context.Context, params BreakParams) (*BreakResult, error) {
	sourceRoot, err := s.sourceRoot(ctx, params.Dir)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(sourceRoot)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.state.Get(ctx, sourceRoot)
	switch {
	case err == nil && existing.Initialized:
		return nil, fmt.Errorf("%w: %s", domain.ErrShadowRepoExists, existing.ShadowRepoRoot)
	case err != nil && !errors.Is(err, domain.ErrRepoNotInitialized):
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	if err := s.requireClean(ctx, sourceRoot); err != nil {
		return nil, err
	}

	tree, err := s.vcs.Subtree(ctx, sourceRoot, ".")
	if err != nil {
		return nil, err
	}
	if tree.Len() < 2 {
		return nil, domain.ErrNothingToMove
	}

	shadowPath := config.ShadowRepoPath(sourceRoot)
	leftover, err := fsutil.Exists(s.fs, shadowPath)
	if err != nil {
		return nil, err
	}
	if leftover {
		return nil, fmt.Errorf("%w: %s has no recorded state, remove it to retry", domain.ErrShadowRepoExists, shadowPath)
	}

	if !params.KeepSource {
		if err := s.confirm(
			fmt.Sprintf("Move %d draft commits into the shadow repository?", tree.Len()-1),
			"They are stripped from this repository once replicated. hg keeps a backup bundle.",
		); err != nil {
			return nil, err
		}
	}

	var currentHash string
	if current := tree.Current(); current != nil {
		currentHash = current.Hash
	}
	baseFiles := s.resolver.Resolve(tree)
	logging.Logger.Info("Breaking subtree",
		"repo", sourceRoot,
		"root", tree.Root.Hash,
		"current", currentHash,
		"base_files", len(baseFiles))

	result := &BreakResult{BaseFiles: baseFiles, SourceRepoRoot: sourceRoot}
	moving := false
	err = s.prompter.Progress(ctx, "Moving commits to the shadow repository...", func(ctx context.Context) error {
		if err := s.vcs.Update(ctx, sourceRoot, tree.Root.Hash); err != nil {
			return err
		}

		shadowRoot, err := s.shadow.InitShadowRepo(ctx, sourceRoot, baseFiles)
		if err != nil {
			return err
		}
		result.ShadowRepoRoot = shadowRoot

		syncState, err := s.sync.StartTracking(ctx, shadowRoot)
		if err != nil {
			return err
		}

		moving = true
		shadowTree, err := s.subtree.MoveSubtree(ctx, MoveOptions{
			CurrentHash:    currentHash,
			DestParentHash: ".",
			DestRepoRoot:   shadowRoot,
			KeepSource:     params.KeepSource,
			SourceRepoRoot: sourceRoot,
			SourceTree:     tree,
		})
		if err != nil {
			return err
		}
		result.ShadowTree = shadowTree

		synced, err := s.sync.SyncTracked(ctx, shadowRoot, sourceRoot, &syncState)
		if err != nil {
			return err
		}
		result.SyncedFiles = synced

		state := domain.NewRepoState(sourceRoot)
		state.Initialized = true
		state.ShadowRepoRoot = shadowRoot
		state.ShadowRootSources[shadowTree.Root.Hash] = tree.Root.Hash
		state.Sync = syncState
		return s.state.Save(ctx, state)
	})
	if err != nil {
		// Once the move started, source commits may already be stripped and the shadow holds the only copy
		if moving {
			return nil, fmt.Errorf("%w (shadow repository kept at %s)", err, shadowPath)
		}
		s.removeShadow(shadowPath)
		return nil, err
	}

	return result, nil
}

// removeShadow deletes a shadow repository that never received commits
func (s *MercService) removeShadow(shadowPath string) {
	logging.Logger.Info("Removing incomplete shadow repository", "path", shadowPath)
	if err := s.fs.RemoveAll(shadowPath); err != nil {
		logging.Logger.Warn("Failed to remove incomplete shadow repository", "path", shadowPath, "error", err)
	}
}

// UnbreakParams contains parameters for Unbreak
type UnbreakParams struct {
	Dir        string
	KeepSource bool
}

// UnbreakResult is the outcome of Unbreak
type UnbreakResult struct {
	MovedTree      *domain.ShadowTree
	ShadowRemoved  bool
	SourceRepoRoot string
}

// Unbreak moves the shadow subtree back onto the source revision it was broken off from
func (s *MercService) Unbreak(ctx context.Context, params UnbreakParams) (*UnbreakResult, error) {
	sourceRoot, err := s.sourceRoot(ctx, params.Dir)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(sourceRoot)
	if err != nil {
		return nil, err
	}
	defer unlock()

	state, err := s.state.Get(ctx, sourceRoot)
	if err != nil {
		return nil, err
	}

	shadowTree, err := s.vcs.Subtree(ctx, state.ShadowRepoRoot, ".")
	if err != nil {
		return nil, err
	}
	sourceBase, ok := state.ShadowRootSources[shadowTree.Root.Hash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrShadowRootUnknown, shadowTree.Root.Hash)
	}

	if !params.KeepSource {
		if err := s.confirm(
			fmt.Sprintf("Move %d commits back and remove the shadow repository?", shadowTree.Len()-1),
			"Uncommitted changes in this repository are reverted first.",
		); err != nil {
			return nil, err
		}
	}

	var currentHash string
	if current := shadowTree.Current(); current != nil {
		currentHash = current.Hash
	}
	logging.Logger.Info("Unbreaking subtree",
		"repo", sourceRoot,
		"shadow_root", shadowTree.Root.Hash,
		"source_root", sourceBase,
		"current", currentHash)

	result := &UnbreakResult{SourceRepoRoot: sourceRoot}
	err = s.prompter.Progress(ctx, "Moving commits back...", func(ctx context.Context) error {
		if err := s.sync.ClearTracked(ctx, state.ShadowRepoRoot, sourceRoot, shadowTree.Root.Hash); err != nil {
			return err
		}

		moved, err := s.subtree.MoveSubtree(ctx, MoveOptions{
			CurrentHash:    currentHash,
			DestParentHash: sourceBase,
			DestRepoRoot:   sourceRoot,
			KeepSource:     params.KeepSource,
			SourceRepoRoot: state.ShadowRepoRoot,
			SourceTree:     shadowTree,
		})
		if err != nil {
			return err
		}
		result.MovedTree = moved

		if params.KeepSource {
			return nil
		}

		delete(state.ShadowRootSources, shadowTree.Root.Hash)
		if len(state.ShadowRootSources) > 0 {
			return s.state.Save(ctx, state)
		}

		logging.Logger.Info("Removing shadow repository", "path", state.ShadowRepoRoot)
		if err := s.fs.RemoveAll(state.ShadowRepoRoot); err != nil {
			return fmt.Errorf("failed to remove shadow repository: %w", err)
		}
		result.ShadowRemoved = true
		return s.state.Delete(ctx, sourceRoot)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Sync replays the shadow working copy into the source and returns the number of files replayed
func (s *MercService) Sync(ctx context.Context, dir string) (int, error) {
	sourceRoot, err := s.sourceRoot(ctx, dir)
	if err != nil {
		return 0, err
	}

	unlock, err := s.locker.Lock(sourceRoot)
	if err != nil {
		return 0, err
	}
	defer unlock()

	state, err := s.state.Get(ctx, sourceRoot)
	if err != nil {
		return 0, err
	}

	synced, err := s.sync.SyncTracked(ctx, state.ShadowRepoRoot, sourceRoot, &state.Sync)
	if err != nil {
		// Persist the dirty flag so a later sync knows it has work left
		if saveErr := s.state.Save(ctx, state); saveErr != nil {
			logging.Logger.Warn("Failed to save sync state", "error", saveErr)
		}
		return 0, err
	}

	if err := s.state.Save(ctx, state); err != nil {
		return 0, err
	}
	return synced, nil
}

// Status returns the stored state of the repository containing dir
func (s *MercService) Status(ctx context.Context, dir string) (*domain.RepoState, error) {
	sourceRoot, err := s.sourceRoot(ctx, dir)
	if err != nil {
		return nil, err
	}
	return s.state.Get(ctx, sourceRoot)
}

// Subtree returns the commit tree around rev in the repository containing dir
func (s *MercService) Subtree(ctx context.Context, dir, rev string) (*domain.CommitTree, error) {
	root, err := s.vcs.RepoRoot(ctx, dir)
	if err != nil {
		return nil, err
	}
	return s.vcs.Subtree(ctx, root, rev)
}

// Dependencies returns the base files the subtree around rev would be seeded with
func (s *MercService) Dependencies(ctx context.Context, dir, rev string) (domain.FileSet, error) {
	tree, err := s.Subtree(ctx, dir, rev)
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(tree), nil
}

// sourceRoot resolves the source repository of dir, which may be inside a shadow repository
func (s *MercService) sourceRoot(ctx context.Context, dir string) (string, error) {
	root, err := s.vcs.RepoRoot(ctx, dir)
	if err != nil {
		return "", err
	}
	if base, ok := strings.CutSuffix(filepath.Clean(root), string(filepath.Separator)+config.ShadowRepoDir); ok {
		return base, nil
	}
	return root, nil
}

func (s *MercService) requireClean(ctx context.Context, repoRoot string) error {
	changes, err := s.vcs.Status(ctx, repoRoot, "")
	if err != nil {
		return err
	}
	if len(changes) > 0 {
		return fmt.Errorf("%w: %d files changed in %s", domain.ErrDirtyWorkingCopy, len(changes), repoRoot)
	}
	return nil
}

func (s *MercService) confirm(title, description string) error {
	ok, err := s.prompter.Confirm(title, description)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrCancelled
	}
	return nil
}

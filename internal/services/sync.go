package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"merc/internal/adapters/fsutil"
	"merc/internal/domain"
	"merc/internal/logging"
	"merc/internal/ports"
)

// SyncService mirrors working copy changes of one repository into another
type SyncService struct {
	fs  afero.Fs
	vcs ports.VersionControl
}

// NewSyncService creates a new SyncService
func NewSyncService(fs afero.Fs, vcs ports.VersionControl) *SyncService {
	return &SyncService{fs: fs, vcs: vcs}
}

// StartTracking records the current revision of trackedRoot as the sync clock
func (s *SyncService) StartTracking(ctx context.Context, trackedRoot string) (domain.SyncState, error) {
	rev, err := s.vcs.CurrentRevision(ctx, trackedRoot)
	if err != nil {
		return domain.SyncState{}, fmt.Errorf("failed to start tracking %s: %w", trackedRoot, err)
	}
	logging.Logger.Debug("Tracking started", "repo", trackedRoot, "clock", rev)
	return domain.SyncState{Clock: rev}, nil
}

// SyncTracked replays into `to` every change `from` has relative to the sync clock, then
// advances the clock to the current revision of `from`. Returns the number of files replayed.
func (s *SyncService) SyncTracked(ctx context.Context, from, to string, state *domain.SyncState) (int, error) {
	if state.Clock == "" {
		return 0, fmt.Errorf("sync clock is not set for %s", from)
	}

	statuses, err := s.vcs.Status(ctx, from, state.Clock)
	if err != nil {
		return 0, err
	}
	state.IsDirty = len(statuses) > 0

	logging.Logger.Info("Syncing working copy", "from", from, "to", to, "clock", state.Clock, "files", len(statuses))

	g, gctx := errgroup.WithContext(ctx)
	for _, st := range statuses {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			target := filepath.Join(to, st.Path)
			if st.IsDeletion() {
				if err := fsutil.RemoveFile(s.fs, target); err != nil {
					return fmt.Errorf("failed to remove %s: %w", st.Path, err)
				}
				return nil
			}
			if err := fsutil.CopyPath(s.fs, filepath.Join(from, st.Path), target); err != nil {
				return fmt.Errorf("%w %s: %w", domain.ErrFileCopy, st.Path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	rev, err := s.vcs.CurrentRevision(ctx, from)
	if err != nil {
		return 0, err
	}
	state.Clock = rev
	state.IsDirty = false
	return len(statuses), nil
}

// ClearTracked undoes what SyncTracked replayed into `to`: files `from` added since baseRev
// are removed and tracked files in `to` are reverted.
func (s *SyncService) ClearTracked(ctx context.Context, from, to, baseRev string) error {
	statuses, err := s.vcs.Status(ctx, from, baseRev)
	if err != nil {
		return err
	}

	for _, st := range statuses {
		if st.Code != domain.StatusAdded {
			continue
		}
		if err := fsutil.RemoveFile(s.fs, filepath.Join(to, st.Path)); err != nil {
			return fmt.Errorf("failed to remove %s: %w", st.Path, err)
		}
	}

	logging.Logger.Info("Reverting synced changes", "repo", to)
	return s.vcs.Revert(ctx, to)
}

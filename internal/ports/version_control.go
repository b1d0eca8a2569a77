package ports

import (
	"context"

	"merc/internal/domain"
)

// RepoInspector queries repository information
type RepoInspector interface {
	CurrentRevision(ctx context.Context, repoRoot string) (string, error)
	MergeBase(ctx context.Context, repoRoot, rev string) (string, error)
	RepoRoot(ctx context.Context, dir string) (string, error)
	Subtree(ctx context.Context, repoRoot, rev string) (*domain.CommitTree, error)
}

// CommitWriter creates commits and moves the working copy
type CommitWriter interface {
	Add(ctx context.Context, repoRoot string, files ...string) error
	Commit(ctx context.Context, repoRoot, message string) error
	Init(ctx context.Context, repoRoot string) error
	Revert(ctx context.Context, repoRoot string) error
	SetPhase(ctx context.Context, repoRoot string, phase domain.Phase, rev string) error
	Update(ctx context.Context, repoRoot, rev string) error
}

// PatchTransfer moves single commits between repositories as patches
type PatchTransfer interface {
	Export(ctx context.Context, repoRoot, rev string) (string, error)
	Import(ctx context.Context, repoRoot, patch string) error
}

// HistoryEditor removes history
type HistoryEditor interface {
	Strip(ctx context.Context, repoRoot, rev string) error
}

// StatusReader lists working copy changes
type StatusReader interface {
	Status(ctx context.Context, repoRoot, baseRev string) ([]domain.FileStatus, error)
}

// VersionControl is the composite interface
type VersionControl interface {
	CommitWriter
	HistoryEditor
	PatchTransfer
	RepoInspector
	StatusReader
}

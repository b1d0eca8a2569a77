package ports

import (
	"context"

	"merc/internal/domain"
)

// StateRepository persists merc's per-repository state between invocations
type StateRepository interface {
	Close() error
	Delete(ctx context.Context, sourceRepoRoot string) error
	Get(ctx context.Context, sourceRepoRoot string) (*domain.RepoState, error)
	Save(ctx context.Context, state *domain.RepoState) error
}

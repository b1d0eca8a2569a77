package domain

import "time"

// SyncState tracks where continuous sync between two repositories left off
type SyncState struct {
	Clock   string // revision of the tracked repository when tracking last started or synced
	IsDirty bool   // tracked repository has changes not yet replayed
}

// RepoState is everything merc remembers about one source repository between invocations
type RepoState struct {
	Initialized       bool
	ShadowRepoRoot    string
	ShadowRootSources map[string]string // shadow root hash -> source root hash
	SourceRepoRoot    string
	Sync              SyncState
	UpdatedAt         time.Time
}

// NewRepoState creates an uninitialized state for sourceRepoRoot
func NewRepoState(sourceRepoRoot string) *RepoState {
	return &RepoState{
		ShadowRootSources: make(map[string]string),
		SourceRepoRoot:    sourceRepoRoot,
	}
}

package storage

import (
	"merc/internal/domain"
)

// repoModelToDomain converts a RepoModel (GORM) and its shadow roots to domain.RepoState
func repoModelToDomain(m RepoModel, roots []ShadowRootModel) *domain.RepoState {
	state := domain.NewRepoState(m.SourceRepoRoot)
	state.Initialized = m.Initialized
	state.ShadowRepoRoot = m.ShadowRepoRoot
	state.Sync = domain.SyncState{
		Clock:   m.SyncClock,
		IsDirty: m.ShadowIsDirty,
	}
	state.UpdatedAt = m.UpdatedAt
	for _, r := range roots {
		state.ShadowRootSources[r.ShadowHash] = r.SourceHash
	}
	return state
}

// domainToRepoModel converts a domain.RepoState to RepoModel (GORM)
func domainToRepoModel(s *domain.RepoState) RepoModel {
	return RepoModel{
		Initialized:    s.Initialized,
		ShadowIsDirty:  s.Sync.IsDirty,
		ShadowRepoRoot: s.ShadowRepoRoot,
		SourceRepoRoot: s.SourceRepoRoot,
		SyncClock:      s.Sync.Clock,
	}
}

// domainToShadowRootModels converts the shadow root mapping of s to ShadowRootModels
func domainToShadowRootModels(s *domain.RepoState) []ShadowRootModel {
	models := make([]ShadowRootModel, 0, len(s.ShadowRootSources))
	for shadow, source := range s.ShadowRootSources {
		models = append(models, ShadowRootModel{
			ShadowHash:     shadow,
			SourceHash:     source,
			SourceRepoRoot: s.SourceRepoRoot,
		})
	}
	return models
}

package services

import (
	"merc/internal/domain"
	"merc/internal/ports"
)

// DraftDependencyResolver resolves the base files a subtree needs from its draft commits
type DraftDependencyResolver struct{}

// Verify interface compliance at compile time
var _ ports.DependencyResolver = DraftDependencyResolver{}

// Resolve implements ports.DependencyResolver
func (DraftDependencyResolver) Resolve(tree *domain.CommitTree) domain.FileSet {
	if tree == nil {
		return domain.FileSet{}
	}
	return domain.FileDependencies(tree.Root)
}

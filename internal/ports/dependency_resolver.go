package ports

import "merc/internal/domain"

// DependencyResolver computes the base files a subtree needs in a shadow repository
type DependencyResolver interface {
	Resolve(tree *domain.CommitTree) domain.FileSet
}

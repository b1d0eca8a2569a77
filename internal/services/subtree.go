package services

import (
	"context"
	"fmt"
	"iter"

	"merc/internal/domain"
	"merc/internal/logging"
	"merc/internal/ports"
)

// SubtreeService replicates commit subtrees between repositories
type SubtreeService struct {
	vcs ports.VersionControl
}

// NewSubtreeService creates a new SubtreeService
func NewSubtreeService(vcs ports.VersionControl) *SubtreeService {
	return &SubtreeService{vcs: vcs}
}

// MoveOptions describes one subtree move
type MoveOptions struct {
	// CurrentHash marks a source node as the revision to check out in the destination,
	// in addition to nodes flagged IsCurrentRevision
	CurrentHash string
	// DestParentHash is the destination revision the subtree root maps to.
	// Empty or "." keeps the destination's current position.
	DestParentHash string
	DestRepoRoot   string
	// KeepSource skips stripping the replicated drafts from the source
	KeepSource     bool
	SourceRepoRoot string
	SourceTree     *domain.CommitTree
}

// ReplicateParams contains the destination side of a replication
type ReplicateParams struct {
	CurrentHash    string
	DestParentHash string
	DestRepoRoot   string
	SourceRepoRoot string
	SourceTree     *domain.CommitTree
}

// ReplicateResult is the outcome of ReplicateNodes
type ReplicateResult struct {
	// Checkout is the shadow node that should be checked out, nil when no node was current
	Checkout *domain.ShadowCommitNode
	Tree     *domain.ShadowTree
}

// MoveSubtree replicates every node of the source tree into the destination, checks out
// the shadow of the current revision and then strips the replicated drafts from the source.
// Nothing is stripped when any earlier step fails.
func (s *SubtreeService) MoveSubtree(ctx context.Context, opts MoveOptions) (*domain.ShadowTree, error) {
	if opts.SourceTree == nil || opts.SourceTree.Root == nil {
		return nil, fmt.Errorf("%w: source tree is empty", domain.ErrReplication)
	}

	logging.Logger.Info("Moving subtree",
		"source", opts.SourceRepoRoot,
		"dest", opts.DestRepoRoot,
		"root", opts.SourceTree.Root.Hash,
		"nodes", opts.SourceTree.Len())

	result, err := s.ReplicateNodes(ctx, domain.Walk(opts.SourceTree.Root), ReplicateParams{
		CurrentHash:    opts.CurrentHash,
		DestParentHash: opts.DestParentHash,
		DestRepoRoot:   opts.DestRepoRoot,
		SourceRepoRoot: opts.SourceRepoRoot,
		SourceTree:     opts.SourceTree,
	})
	if err != nil {
		return nil, err
	}

	checkout := result.Checkout
	if checkout == nil {
		logging.Logger.Warn("No current revision in subtree, checking out shadow root",
			"root", result.Tree.Root.Hash)
		checkout = result.Tree.Root
	}
	if err := s.vcs.Update(ctx, opts.DestRepoRoot, checkout.Hash); err != nil {
		return nil, fmt.Errorf("failed to check out replicated revision: %w", err)
	}

	if opts.KeepSource {
		logging.Logger.Info("Keeping source commits", "source", opts.SourceRepoRoot)
		return result.Tree, nil
	}

	if err := s.stripDrafts(ctx, opts.SourceRepoRoot, opts.SourceTree.Root); err != nil {
		return nil, err
	}

	return result.Tree, nil
}

// ReplicateNodes runs the per-node replication step for each node of nodes, in order.
// A draft node whose parent has not been replicated yet fails with ErrMissingShadowParent.
func (s *SubtreeService) ReplicateNodes(ctx context.Context, nodes iter.Seq[*domain.CommitNode], params ReplicateParams) (*ReplicateResult, error) {
	if params.SourceTree == nil {
		return nil, fmt.Errorf("%w: source tree is empty", domain.ErrReplication)
	}

	shadow := domain.NewShadowTree()
	bySource := make(map[string]*domain.ShadowCommitNode)
	result := &ReplicateResult{Tree: shadow}

	for node := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var shadowParent *domain.ShadowCommitNode
		if parent := params.SourceTree.Parent(node); parent != nil {
			shadowParent = bySource[parent.Hash]
		}

		if node.Phase == domain.PhasePublic {
			if node.IsRoot() && params.DestParentHash != "" && params.DestParentHash != "." {
				logging.Logger.Debug("Positioning destination", "rev", params.DestParentHash)
				if err := s.vcs.Update(ctx, params.DestRepoRoot, params.DestParentHash); err != nil {
					return nil, fmt.Errorf("failed to position destination at %s: %w", params.DestParentHash, err)
				}
			}
		} else {
			if shadowParent == nil {
				return nil, fmt.Errorf("%w: %s", domain.ErrMissingShadowParent, node.Hash)
			}
			if err := s.transfer(ctx, node.Hash, shadowParent.Hash, params); err != nil {
				return nil, err
			}
		}

		hash, err := s.vcs.CurrentRevision(ctx, params.DestRepoRoot)
		if err != nil {
			return nil, fmt.Errorf("failed to read replicated revision of %s: %w", node.Hash, err)
		}

		shadowNode := domain.NewShadowCommitNode(node, hash)
		shadow.Attach(shadowNode, shadowParent)
		bySource[node.Hash] = shadowNode

		logging.Logger.Debug("Replicated commit", "source", node.Hash, "shadow", hash, "phase", node.Phase)

		if node.IsCurrentRevision || (params.CurrentHash != "" && node.Hash == params.CurrentHash) {
			result.Checkout = shadowNode
		}
	}

	if shadow.Root == nil {
		return nil, fmt.Errorf("%w: no commits replicated", domain.ErrReplication)
	}

	return result, nil
}

// transfer exports rev from the source and imports it on top of destParent
func (s *SubtreeService) transfer(ctx context.Context, rev, destParent string, params ReplicateParams) error {
	patch, err := s.vcs.Export(ctx, params.SourceRepoRoot, rev)
	if err != nil {
		return err
	}
	if err := s.vcs.Update(ctx, params.DestRepoRoot, destParent); err != nil {
		return fmt.Errorf("%w: failed to update to %s: %w", domain.ErrPatchApply, destParent, err)
	}
	return s.vcs.Import(ctx, params.DestRepoRoot, patch)
}

// stripDrafts removes the draft children of root, and with them every replicated draft
func (s *SubtreeService) stripDrafts(ctx context.Context, repoRoot string, root *domain.CommitNode) error {
	var revs []string
	if root.Phase == domain.PhaseDraft {
		revs = append(revs, root.Hash)
	} else {
		for _, child := range root.Children {
			if child.Phase == domain.PhaseDraft {
				revs = append(revs, child.Hash)
			}
		}
	}

	for _, rev := range revs {
		logging.Logger.Info("Stripping replicated commits", "repo", repoRoot, "rev", rev)
		if err := s.vcs.Strip(ctx, repoRoot, rev); err != nil {
			return err
		}
	}
	return nil
}

package domain

import (
	"fmt"
	"strings"
)

// CommitNode is a CommitRecord linked into a CommitTree.
// The parent is referenced by hash and resolved through the owning tree.
type CommitNode struct {
	CommitRecord
	Children []*CommitNode
}

// IsRoot reports whether the node has no parent in its tree
func (n *CommitNode) IsRoot() bool {
	return n.ParentHash == ""
}

// CommitTree owns every CommitNode of a subtree, indexed by hash
type CommitTree struct {
	Root  *CommitNode
	nodes map[string]*CommitNode
}

// Node returns the node with the given hash, or nil
func (t *CommitTree) Node(hash string) *CommitNode {
	return t.nodes[hash]
}

// Parent returns the parent of n, or nil for the root
func (t *CommitTree) Parent(n *CommitNode) *CommitNode {
	if n == nil || n.IsRoot() {
		return nil
	}
	return t.nodes[n.ParentHash]
}

// Len returns the number of nodes in the tree
func (t *CommitTree) Len() int {
	return len(t.nodes)
}

// Current returns the node flagged as the current revision, or nil
func (t *CommitTree) Current() *CommitNode {
	for n := range Walk(t.Root) {
		if n.IsCurrentRevision {
			return n
		}
	}
	return nil
}

// BuildTree links records into a single rooted tree.
// Children are appended in record order. The root's file changes are cleared since
// the root marks the merge base rather than an in-scope change.
func BuildTree(records []CommitRecord) (*CommitTree, error) {
	tree := &CommitTree{nodes: make(map[string]*CommitNode, len(records))}
	ordered := make([]*CommitNode, 0, len(records))
	current := ""

	for _, rec := range records {
		if _, exists := tree.nodes[rec.Hash]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateHash, rec.Hash)
		}
		if rec.IsCurrentRevision {
			if current != "" {
				return nil, fmt.Errorf("%w: %s and %s", ErrDuplicateCurrentRevision, current, rec.Hash)
			}
			current = rec.Hash
		}
		node := &CommitNode{CommitRecord: rec}
		tree.nodes[rec.Hash] = node
		ordered = append(ordered, node)
	}

	var roots []*CommitNode
	for _, node := range ordered {
		if node.ParentHash == "" || tree.nodes[node.ParentHash] == nil {
			roots = append(roots, node)
		}
	}

	switch len(roots) {
	case 0:
		return nil, ErrNoRoot
	case 1:
	default:
		hashes := make([]string, len(roots))
		for i, r := range roots {
			hashes[i] = r.Hash
		}
		return nil, fmt.Errorf("%w: %s", ErrMultipleRoots, strings.Join(hashes, ", "))
	}

	root := roots[0]
	root.ParentHash = ""
	for _, node := range ordered {
		if node == root {
			continue
		}
		parent := tree.nodes[node.ParentHash]
		parent.Children = append(parent.Children, node)
	}

	root.FileChanges = NewFileChanges()
	tree.Root = root

	reached := 0
	for range Walk(root) {
		reached++
	}
	if reached != len(ordered) {
		return nil, fmt.Errorf("%w: %d of %d", ErrUnreachableNodes, len(ordered)-reached, len(ordered))
	}

	return tree, nil
}

// ShadowCommitNode is a commit created in the destination repository from a source node
type ShadowCommitNode struct {
	FileChanges
	Children          []*ShadowCommitNode
	Hash              string
	IsCurrentRevision bool
	ParentHash        string
	Phase             Phase
	SourceHash        string
}

// NewShadowCommitNode mirrors source into a destination commit identified by hash
func NewShadowCommitNode(source *CommitNode, hash string) *ShadowCommitNode {
	return &ShadowCommitNode{
		FileChanges:       source.FileChanges,
		Hash:              hash,
		IsCurrentRevision: source.IsCurrentRevision,
		Phase:             source.Phase,
		SourceHash:        source.Hash,
	}
}

// ShadowTree owns the shadow nodes created by a replication
type ShadowTree struct {
	Root  *ShadowCommitNode
	nodes map[string]*ShadowCommitNode
}

// NewShadowTree creates an empty shadow tree
func NewShadowTree() *ShadowTree {
	return &ShadowTree{nodes: make(map[string]*ShadowCommitNode)}
}

// Attach links node under parent, or makes it the root when parent is nil
func (t *ShadowTree) Attach(node, parent *ShadowCommitNode) {
	if parent == nil {
		node.ParentHash = ""
		t.Root = node
	} else {
		node.ParentHash = parent.Hash
		parent.Children = append(parent.Children, node)
	}
	t.nodes[node.Hash] = node
}

// Node returns the shadow node with the given destination hash, or nil
func (t *ShadowTree) Node(hash string) *ShadowCommitNode {
	return t.nodes[hash]
}

// Parent returns the parent of n, or nil for the root
func (t *ShadowTree) Parent(n *ShadowCommitNode) *ShadowCommitNode {
	if n == nil || n.ParentHash == "" {
		return nil
	}
	return t.nodes[n.ParentHash]
}

// Len returns the number of shadow nodes
func (t *ShadowTree) Len() int {
	return len(t.nodes)
}

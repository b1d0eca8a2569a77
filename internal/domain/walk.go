package domain

import "iter"

// PreOrder yields root and then, depth first, every descendant returned by children.
// Each call to the returned sequence starts a fresh traversal.
func PreOrder[N comparable](root N, children func(N) []N) iter.Seq[N] {
	return func(yield func(N) bool) {
		var zero N
		if root == zero {
			return
		}
		stack := []N{root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			kids := children(n)
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, kids[i])
			}
		}
	}
}

// Walk traverses a commit tree in pre-order, parents strictly before descendants
func Walk(root *CommitNode) iter.Seq[*CommitNode] {
	return PreOrder(root, func(n *CommitNode) []*CommitNode { return n.Children })
}

// WalkShadow traverses a shadow tree in pre-order
func WalkShadow(root *ShadowCommitNode) iter.Seq[*ShadowCommitNode] {
	return PreOrder(root, func(n *ShadowCommitNode) []*ShadowCommitNode { return n.Children })
}

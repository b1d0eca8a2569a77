package domain

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashes(seq func(func(*CommitNode) bool)) []string {
	var out []string
	for n := range seq {
		out = append(out, n.Hash)
	}
	return out
}

func TestWalk_PreOrder(t *testing.T) {
	tree, err := BuildTree([]CommitRecord{
		record("a", "", PhasePublic),
		record("b", "a", PhaseDraft),
		record("e", "a", PhaseDraft),
		record("c", "b", PhaseDraft),
		record("d", "b", PhaseDraft),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, hashes(Walk(tree.Root)))
}

func TestWalk_Restartable(t *testing.T) {
	tree, err := BuildTree(chainRecords(3))
	require.NoError(t, err)
	seq := Walk(tree.Root)

	first := hashes(seq)
	second := hashes(seq)

	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestWalk_EarlyBreak(t *testing.T) {
	tree, err := BuildTree(chainRecords(5))
	require.NoError(t, err)

	visited := 0
	for range Walk(tree.Root) {
		visited++
		if visited == 2 {
			break
		}
	}

	assert.Equal(t, 2, visited)
}

func TestWalk_NilRoot(t *testing.T) {
	assert.Empty(t, hashes(Walk(nil)))
}

func TestWalkShadow(t *testing.T) {
	src, err := BuildTree(chainRecords(2))
	require.NoError(t, err)
	shadow := NewShadowTree()
	root := NewShadowCommitNode(src.Root, "h0")
	shadow.Attach(root, nil)
	shadow.Attach(NewShadowCommitNode(src.Node("c1"), "h1"), root)

	var got []string
	for n := range WalkShadow(shadow.Root) {
		got = append(got, n.Hash)
	}

	assert.Equal(t, []string{"h0", "h1"}, got)
}

// recordsFromParents turns choices into a random tree: commit i>0 hangs off commit choices[i-1] % i
func recordsFromParents(choices []int) []CommitRecord {
	records := []CommitRecord{record("n0", "", PhasePublic)}
	for i := 1; i <= len(choices); i++ {
		parent := fmt.Sprintf("n%d", choices[i-1]%i)
		records = append(records, record(fmt.Sprintf("n%d", i), parent, PhaseDraft))
	}
	return records
}

func TestBuildTree_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("walk visits every record exactly once", prop.ForAll(
		func(choices []int) bool {
			records := recordsFromParents(choices)
			tree, err := BuildTree(records)
			if err != nil {
				return false
			}
			seen := map[string]int{}
			for n := range Walk(tree.Root) {
				seen[n.Hash]++
			}
			if len(seen) != len(records) {
				return false
			}
			for _, count := range seen {
				if count != 1 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.Property("parents are visited before their children", prop.ForAll(
		func(choices []int) bool {
			tree, err := BuildTree(recordsFromParents(choices))
			if err != nil {
				return false
			}
			visited := map[string]bool{}
			for n := range Walk(tree.Root) {
				if !n.IsRoot() && !visited[n.ParentHash] {
					return false
				}
				visited[n.Hash] = true
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.Property("every non-root node is listed once among its parent's children", prop.ForAll(
		func(choices []int) bool {
			tree, err := BuildTree(recordsFromParents(choices))
			if err != nil {
				return false
			}
			edges := 0
			for n := range Walk(tree.Root) {
				seen := map[*CommitNode]bool{}
				for _, c := range n.Children {
					if seen[c] || tree.Parent(c) != n {
						return false
					}
					seen[c] = true
				}
				edges += len(n.Children)
			}
			return edges == tree.Len()-1
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}

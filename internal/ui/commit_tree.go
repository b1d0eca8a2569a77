package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"

	"merc/internal/domain"
	"merc/internal/theme"
)

const shortHashLen = 12

// ShortHash truncates a hash for display
func ShortHash(hash string) string {
	if len(hash) > shortHashLen {
		return hash[:shortHashLen]
	}
	return hash
}

// RenderCommitTree renders a commit tree with one line per commit, children indented
// under their parent. With showFiles, each commit lists its file changes.
func RenderCommitTree(t *domain.CommitTree, showFiles bool) string {
	if t == nil || t.Root == nil {
		return theme.MutedStyle.Render("(empty)")
	}
	return commitBranch(t.Root, showFiles).String()
}

// RenderShadowTree renders a replicated tree, showing each shadow commit next to its source
func RenderShadowTree(t *domain.ShadowTree) string {
	if t == nil || t.Root == nil {
		return theme.MutedStyle.Render("(empty)")
	}
	return shadowBranch(t.Root).String()
}

func commitBranch(n *domain.CommitNode, showFiles bool) *tree.Tree {
	branch := newBranch(commitLabel(n.Hash, n.Phase, n.IsCurrentRevision, ""))
	if showFiles {
		for _, line := range fileLines(n.FileChanges) {
			branch.Child(line)
		}
	}
	for _, child := range n.Children {
		branch.Child(commitBranch(child, showFiles))
	}
	return branch
}

func shadowBranch(n *domain.ShadowCommitNode) *tree.Tree {
	branch := newBranch(commitLabel(n.Hash, n.Phase, n.IsCurrentRevision, n.SourceHash))
	for _, child := range n.Children {
		branch.Child(shadowBranch(child))
	}
	return branch
}

func newBranch(label string) *tree.Tree {
	return tree.Root(label).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(theme.EnumeratorStyle)
}

func commitLabel(hash string, phase domain.Phase, current bool, sourceHash string) string {
	hashStyle := theme.DraftHashStyle
	if phase == domain.PhasePublic {
		hashStyle = theme.PublicHashStyle
	}

	var b strings.Builder
	b.WriteString(hashStyle.Render(ShortHash(hash)))
	b.WriteString(" ")
	b.WriteString(theme.LabelStyle.Render(string(phase)))
	if sourceHash != "" {
		b.WriteString(theme.MutedStyle.Render(fmt.Sprintf(" from %s", ShortHash(sourceHash))))
	}
	if current {
		b.WriteString(" ")
		b.WriteString(theme.CurrentMarkerStyle.Render("@"))
	}
	return b.String()
}

// fileLines lists file changes in a stable order: added, copied, deleted, modified
func fileLines(fc domain.FileChanges) []string {
	var lines []string
	for _, p := range fc.AddedFiles.Sorted() {
		lines = append(lines, theme.AddedStyle.Render("A "+p))
	}

	copies := make([]string, 0, len(fc.CopiedFiles))
	for c := range fc.CopiedFiles {
		copies = append(copies, fmt.Sprintf("C %s <- %s", c.Dest, c.Source))
	}
	for _, c := range domain.NewFileSet(copies...).Sorted() {
		lines = append(lines, theme.CopiedStyle.Render(c))
	}

	for _, p := range fc.DeletedFiles.Sorted() {
		lines = append(lines, theme.DeletedStyle.Render("R "+p))
	}
	for _, p := range fc.ModifiedFiles.Sorted() {
		lines = append(lines, theme.ModifiedStyle.Render("M "+p))
	}
	return lines
}

// RenderRepoState renders the stored merc state of a repository
func RenderRepoState(s *domain.RepoState) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(theme.LabelStyle.Render(fmt.Sprintf("%-14s", label)))
		b.WriteString(theme.NormalStyle.Render(value))
		b.WriteString("\n")
	}

	b.WriteString(theme.TitleStyle.Render("merc"))
	b.WriteString("\n")
	row("Source", s.SourceRepoRoot)
	row("Shadow", s.ShadowRepoRoot)
	row("Sync clock", ShortHash(s.Sync.Clock))
	if s.Sync.IsDirty {
		row("Sync", "pending changes")
	}
	for _, shadow := range sortedKeys(s.ShadowRootSources) {
		row("Broken off", fmt.Sprintf("%s -> %s", ShortHash(s.ShadowRootSources[shadow]), ShortHash(shadow)))
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return domain.NewFileSet(keys...).Sorted()
}

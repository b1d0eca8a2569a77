package domain

// FileDependencies returns the files the draft commits under root need to exist at the merge base:
// everything they modify, delete or copy from, minus the files the branch creates itself.
func FileDependencies(root *CommitNode) FileSet {
	needed := FileSet{}
	created := FileSet{}

	for n := range Walk(root) {
		if n.Phase != PhaseDraft {
			continue
		}
		for p := range n.ModifiedFiles {
			needed.Add(p)
		}
		for p := range n.DeletedFiles {
			needed.Add(p)
		}
		for c := range n.CopiedFiles {
			needed.Add(c.Source)
			created.Add(c.Dest)
		}
		for p := range n.AddedFiles {
			created.Add(p)
		}
	}

	for p := range created {
		delete(needed, p)
	}
	return needed
}

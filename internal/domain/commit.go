package domain

import (
	"fmt"
	"sort"
)

// Phase is the publication state of a commit
type Phase string

const (
	PhaseDraft  Phase = "draft"
	PhasePublic Phase = "public"
)

// ParsePhase validates a phase name as printed by hg
func ParsePhase(s string) (Phase, error) {
	switch Phase(s) {
	case PhaseDraft, PhasePublic:
		return Phase(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPhase, s)
}

// FileSet is an unordered set of repository-relative paths
type FileSet map[string]struct{}

// NewFileSet creates a FileSet holding the given paths
func NewFileSet(paths ...string) FileSet {
	fs := make(FileSet, len(paths))
	for _, p := range paths {
		fs.Add(p)
	}
	return fs
}

// Add inserts path into the set
func (fs FileSet) Add(path string) {
	fs[path] = struct{}{}
}

// Has reports whether path is in the set
func (fs FileSet) Has(path string) bool {
	_, ok := fs[path]
	return ok
}

// Sorted returns the paths in lexical order
func (fs FileSet) Sorted() []string {
	out := make([]string, 0, len(fs))
	for p := range fs {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// CopiedFile is a file copied (or renamed) from Source to Dest
type CopiedFile struct {
	Dest   string
	Source string
}

// CopySet is an unordered set of copy entries
type CopySet map[CopiedFile]struct{}

// Add inserts a copy entry into the set
func (cs CopySet) Add(c CopiedFile) {
	cs[c] = struct{}{}
}

// FileChanges holds the four per-commit file change sets
type FileChanges struct {
	AddedFiles    FileSet
	CopiedFiles   CopySet
	DeletedFiles  FileSet
	ModifiedFiles FileSet
}

// NewFileChanges returns FileChanges with every set allocated and empty
func NewFileChanges() FileChanges {
	return FileChanges{
		AddedFiles:    FileSet{},
		CopiedFiles:   CopySet{},
		DeletedFiles:  FileSet{},
		ModifiedFiles: FileSet{},
	}
}

// IsEmpty reports whether no file changes are recorded
func (fc FileChanges) IsEmpty() bool {
	return len(fc.AddedFiles) == 0 && len(fc.CopiedFiles) == 0 &&
		len(fc.DeletedFiles) == 0 && len(fc.ModifiedFiles) == 0
}

// CommitRecord is one unlinked commit as read from the subtree log
type CommitRecord struct {
	FileChanges
	Hash              string
	IsCurrentRevision bool
	ParentHash        string // empty when the commit has no parent
	Phase             Phase
}

// NewCommitRecord creates a draft record with empty file sets
func NewCommitRecord(hash string) CommitRecord {
	return CommitRecord{
		FileChanges: NewFileChanges(),
		Hash:        hash,
		Phase:       PhaseDraft,
	}
}

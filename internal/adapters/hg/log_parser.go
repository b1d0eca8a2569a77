package hg

import (
	"fmt"
	"strings"

	"merc/internal/domain"
)

// Section names of the subtree log, in the order they repeat for every commit
const (
	sectionNode       = "node"
	sectionParent     = "p1node"
	sectionCurrent    = "current"
	sectionPhase      = "phase"
	sectionFileAdds   = "file_adds"
	sectionFileCopies = "file_copies"
	sectionFileDels   = "file_dels"
	sectionFileMods   = "file_mods"
)

var subtreeSections = []string{
	sectionNode,
	sectionParent,
	sectionCurrent,
	sectionPhase,
	sectionFileAdds,
	sectionFileCopies,
	sectionFileDels,
	sectionFileMods,
}

const sectionMarkerPrefix = "----"

// subtreeTemplate prints every commit as the eight marked sections above.
// Copies take two lines (source, then name) because no single-line separator is safe for paths.
const subtreeTemplate = "----node\n{node}\n" +
	"----p1node\n{p1node}\n" +
	"----current\n{ifcontains(rev, revset(\".\"), \"1\\n\")}" +
	"----phase\n{phase}\n" +
	"----file_adds\n{file_adds % \"{file}\\n\"}" +
	"----file_copies\n{file_copies % \"{source}\\n{name}\\n\"}" +
	"----file_dels\n{file_dels % \"{file}\\n\"}" +
	"----file_mods\n{file_mods % \"{file}\\n\"}"

// subtreeRevset selects the merge base of rev and every draft descendant of its public children
func subtreeRevset(rev string) string {
	mergeBase := mergeBaseRevset(rev)
	return fmt.Sprintf("descendants(not public() and children(%s)) or %s", mergeBase, mergeBase)
}

func mergeBaseRevset(rev string) string {
	return fmt.Sprintf("last(public() and ancestors(%s))", rev)
}

func sectionMarker(section string) string {
	return sectionMarkerPrefix + section
}

// isNullHash reports whether hash is hg's all-zero null revision
func isNullHash(hash string) bool {
	return hash != "" && strings.Trim(hash, "0") == ""
}

// logParser accumulates records while scanning the subtree log
type logParser struct {
	current      *domain.CommitRecord // nil until the first node marker
	currentHash  string
	foundCurrent bool
	records      []domain.CommitRecord
	seen         map[string]bool
}

// ParseSubtreeLog parses the subtree log into unlinked commit records, in log order.
// Lines before the first node marker are ignored. No graph validation happens here.
func ParseSubtreeLog(text string) ([]domain.CommitRecord, error) {
	lines := strings.Split(strings.TrimRight(text, "\r\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	p := &logParser{seen: make(map[string]bool)}
	section := ""
	next := 0

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if line == sectionMarker(subtreeSections[next]) {
			if subtreeSections[next] == sectionNode {
				if err := p.closeRecord(); err != nil {
					return nil, err
				}
				rec := domain.NewCommitRecord("")
				p.current = &rec
			}
			section = subtreeSections[next]
			next = (next + 1) % len(subtreeSections)
			continue
		}

		if p.current == nil || line == "" {
			continue
		}

		switch section {
		case sectionNode:
			p.current.Hash = line
		case sectionParent:
			if !isNullHash(line) {
				p.current.ParentHash = line
			}
		case sectionCurrent:
			if p.foundCurrent {
				return nil, fmt.Errorf("%w: %s and %s", domain.ErrDuplicateCurrentRevision, p.currentHash, p.current.Hash)
			}
			p.current.IsCurrentRevision = true
			p.foundCurrent = true
			p.currentHash = p.current.Hash
		case sectionPhase:
			phase, err := domain.ParsePhase(line)
			if err != nil {
				return nil, fmt.Errorf("commit %s: %w", p.current.Hash, err)
			}
			p.current.Phase = phase
		case sectionFileAdds:
			p.current.AddedFiles.Add(line)
		case sectionFileCopies:
			if i+1 >= len(lines) || lines[i+1] == sectionMarker(subtreeSections[next]) {
				return nil, fmt.Errorf("%w: %s in commit %s", domain.ErrMalformedCopy, line, p.current.Hash)
			}
			p.current.CopiedFiles.Add(domain.CopiedFile{Source: line, Dest: lines[i+1]})
			i++
		case sectionFileDels:
			p.current.DeletedFiles.Add(line)
		case sectionFileMods:
			p.current.ModifiedFiles.Add(line)
		}
	}

	if err := p.closeRecord(); err != nil {
		return nil, err
	}
	return p.records, nil
}

func (p *logParser) closeRecord() error {
	if p.current == nil {
		return nil
	}
	rec := *p.current
	p.current = nil

	if rec.Hash == "" {
		return fmt.Errorf("%w: commit section without a node hash", domain.ErrParse)
	}
	if p.seen[rec.Hash] {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateHash, rec.Hash)
	}
	p.seen[rec.Hash] = true
	p.records = append(p.records, rec)
	return nil
}

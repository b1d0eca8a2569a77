package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories
var (
	ErrInitialization = errors.New("shadow repository initialization failed")
	ErrParse          = errors.New("failed to parse subtree log")
	ErrReplication    = errors.New("subtree replication failed")
	ErrTreeStructure  = errors.New("invalid commit tree")
)

// Parse errors
var (
	ErrDuplicateCurrentRevision = &categoryError{category: ErrParse, msg: "multiple revisions were marked current"}
	ErrDuplicateHash            = &categoryError{category: ErrParse, msg: "duplicate commit hash"}
	ErrInvalidPhase             = &categoryError{category: ErrParse, msg: "invalid phase"}
	ErrMalformedCopy            = &categoryError{category: ErrParse, msg: "file copy entry has no destination"}
)

// Tree structure errors
var (
	ErrMultipleRoots    = &categoryError{category: ErrTreeStructure, msg: "found multiple roots in tree"}
	ErrNoRoot           = &categoryError{category: ErrTreeStructure, msg: "no root found in tree"}
	ErrUnreachableNodes = &categoryError{category: ErrTreeStructure, msg: "nodes are not reachable from the root"}
)

// Replication errors
var (
	ErrMissingShadowParent = &categoryError{category: ErrReplication, msg: "draft commit has no shadow parent"}
	ErrPatchApply          = &categoryError{category: ErrReplication, msg: "failed to apply patch"}
	ErrPatchExport         = &categoryError{category: ErrReplication, msg: "failed to export patch"}
)

// Initialization errors
var (
	ErrCommit          = &categoryError{category: ErrInitialization, msg: "failed to commit"}
	ErrDirectoryCreate = &categoryError{category: ErrInitialization, msg: "failed to create directory"}
	ErrFileCopy        = &categoryError{category: ErrInitialization, msg: "failed to copy file"}
	ErrPhaseSet        = &categoryError{category: ErrInitialization, msg: "failed to set phase"}
	ErrRepoInit        = &categoryError{category: ErrInitialization, msg: "failed to initialize repository"}
)

var (
	ErrCancelled          = errors.New("cancelled")
	ErrDirtyWorkingCopy   = errors.New("working copy has uncommitted changes")
	ErrNothingToMove      = errors.New("no draft commits to move")
	ErrRepoLocked         = errors.New("another merc command is running for this repository")
	ErrRepoNotInitialized = errors.New("repository is not managed by merc")
	ErrShadowRepoExists   = errors.New("repository already has a shadow repository")
	ErrShadowRootUnknown  = errors.New("shadow root has no recorded source")
)

// categoryError is an error kind that also matches its category with errors.Is
type categoryError struct {
	category error
	msg      string
}

func (e *categoryError) Error() string {
	return e.msg
}

// Is lets errors.Is(err, ErrParse) match every parse error kind
func (e *categoryError) Is(target error) bool {
	return target == e.category
}

// ExternalCommandError is returned when the VCS executable exits with a nonzero status
type ExternalCommandError struct {
	Args       []string
	Dir        string
	Err        error
	ExitCode   int
	Stderr     string
	Subcommand string
}

func (e *ExternalCommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "hg %s failed", e.Subcommand)
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " with exit code %d", e.ExitCode)
	}
	if e.Dir != "" {
		fmt.Fprintf(&b, " in %s", e.Dir)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		fmt.Fprintf(&b, ": %s", stderr)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ExternalCommandError) Unwrap() error {
	return e.Err
}

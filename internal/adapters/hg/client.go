package hg

import (
	"context"
	"fmt"
	"strings"

	"merc/internal/domain"
	"merc/internal/logging"
	"merc/internal/ports"
)

// Client implements ports.VersionControl on top of hg commands
type Client struct {
	runner ports.CommandRunner
}

// Verify interface compliance at compile time
var _ ports.VersionControl = (*Client)(nil)

// NewClient creates a Client issuing commands through runner
func NewClient(runner ports.CommandRunner) *Client {
	return &Client{runner: runner}
}

func (c *Client) run(ctx context.Context, dir, subcommand string, args ...string) (string, error) {
	return c.runner.Run(ctx, dir, nil, subcommand, args...)
}

// RepoInspector methods

// RepoRoot returns the root of the repository containing dir
func (c *Client) RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := c.run(ctx, dir, "root")
	if err != nil {
		return "", fmt.Errorf("failed to find repository root: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// CurrentRevision returns the full hash of the working copy parent
func (c *Client) CurrentRevision(ctx context.Context, repoRoot string) (string, error) {
	out, err := c.run(ctx, repoRoot, "id", "-i", "--debug")
	if err != nil {
		return "", fmt.Errorf("failed to read current revision: %w", err)
	}
	rev := strings.TrimSpace(out)
	if strings.HasSuffix(rev, "+") {
		logging.Logger.Warn("Working copy has uncommitted changes", "repo", repoRoot)
		rev = strings.TrimSuffix(rev, "+")
	}
	return rev, nil
}

// MergeBase returns the last public ancestor of rev
func (c *Client) MergeBase(ctx context.Context, repoRoot, rev string) (string, error) {
	out, err := c.run(ctx, repoRoot, "log", "-r", mergeBaseRevset(rev), "--template", "{node}")
	if err != nil {
		return "", fmt.Errorf("failed to find merge base of %s: %w", rev, err)
	}
	return strings.TrimSpace(out), nil
}

// SubtreeLog returns the raw sectioned log of the subtree rooted at the merge base of rev
func (c *Client) SubtreeLog(ctx context.Context, repoRoot, rev string) (string, error) {
	out, err := c.run(ctx, repoRoot, "log", "-r", subtreeRevset(rev), "--template", subtreeTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to list subtree commits: %w", err)
	}
	return out, nil
}

// Subtree parses the subtree log of rev into a commit tree
func (c *Client) Subtree(ctx context.Context, repoRoot, rev string) (*domain.CommitTree, error) {
	out, err := c.SubtreeLog(ctx, repoRoot, rev)
	if err != nil {
		return nil, err
	}

	records, err := ParseSubtreeLog(out)
	if err != nil {
		return nil, err
	}

	tree, err := domain.BuildTree(records)
	if err != nil {
		return nil, err
	}

	logging.Logger.Debug("Built subtree", "repo", repoRoot, "root", tree.Root.Hash, "nodes", tree.Len())
	return tree, nil
}

// CommitWriter methods

// Init creates an empty repository at repoRoot
func (c *Client) Init(ctx context.Context, repoRoot string) error {
	if _, err := c.run(ctx, "", "init", repoRoot); err != nil {
		return fmt.Errorf("%w at %s: %w", domain.ErrRepoInit, repoRoot, err)
	}
	return nil
}

// Add schedules files for addition
func (c *Client) Add(ctx context.Context, repoRoot string, files ...string) error {
	if _, err := c.run(ctx, repoRoot, "add", files...); err != nil {
		return fmt.Errorf("failed to add files: %w", err)
	}
	return nil
}

// Commit commits every pending change
func (c *Client) Commit(ctx context.Context, repoRoot, message string) error {
	if _, err := c.run(ctx, repoRoot, "commit", "-m", message); err != nil {
		return fmt.Errorf("%w %q: %w", domain.ErrCommit, message, err)
	}
	return nil
}

// Revert discards every uncommitted change to tracked files without keeping .orig backups
func (c *Client) Revert(ctx context.Context, repoRoot string) error {
	if _, err := c.run(ctx, repoRoot, "revert", "--all", "--no-backup"); err != nil {
		return fmt.Errorf("failed to revert working copy: %w", err)
	}
	return nil
}

// Update moves the working copy to rev
func (c *Client) Update(ctx context.Context, repoRoot, rev string) error {
	if _, err := c.run(ctx, repoRoot, "update", rev); err != nil {
		return fmt.Errorf("failed to update to %s: %w", rev, err)
	}
	return nil
}

// SetPhase sets the phase of rev. Moving back to draft requires --force.
func (c *Client) SetPhase(ctx context.Context, repoRoot string, phase domain.Phase, rev string) error {
	args := []string{"--" + string(phase)}
	if phase == domain.PhaseDraft {
		args = append(args, "--force")
	}
	args = append(args, rev)

	if _, err := c.run(ctx, repoRoot, "phase", args...); err != nil {
		return fmt.Errorf("%w %s on %s: %w", domain.ErrPhaseSet, phase, rev, err)
	}
	return nil
}

// PatchTransfer methods

// Export returns rev as a patch against its first parent
func (c *Client) Export(ctx context.Context, repoRoot, rev string) (string, error) {
	out, err := c.run(ctx, repoRoot, "export", "-r", rev)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", domain.ErrPatchExport, rev, err)
	}
	return out, nil
}

// Import commits patch on top of the working copy parent
func (c *Client) Import(ctx context.Context, repoRoot, patch string) error {
	if _, err := c.runner.Run(ctx, repoRoot, strings.NewReader(patch), "import", "-"); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPatchApply, err)
	}
	return nil
}

// HistoryEditor methods

// Strip removes rev and its descendants. hg keeps a backup bundle under .hg/strip-backup.
func (c *Client) Strip(ctx context.Context, repoRoot, rev string) error {
	if _, err := c.run(ctx, repoRoot, "strip", "--config", "extensions.strip=", "-r", rev); err != nil {
		return fmt.Errorf("failed to strip %s: %w", rev, err)
	}
	return nil
}

// StatusReader methods

// Status lists files that differ between baseRev and the working copy
func (c *Client) Status(ctx context.Context, repoRoot, baseRev string) ([]domain.FileStatus, error) {
	args := []string{"--modified", "--added", "--removed", "--deleted"}
	if baseRev != "" {
		args = append(args, "--rev", baseRev)
	}
	out, err := c.run(ctx, repoRoot, "status", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}
	return ParseStatus(out)
}

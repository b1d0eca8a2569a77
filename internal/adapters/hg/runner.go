package hg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"merc/internal/domain"
	"merc/internal/logging"
	"merc/internal/ports"
)

// ExecRunner runs the hg executable as a child process
type ExecRunner struct {
	hgPath string
}

// Verify interface compliance at compile time
var _ ports.CommandRunner = (*ExecRunner)(nil)

// NewExecRunner creates an ExecRunner for the given hg executable
func NewExecRunner(hgPath string) *ExecRunner {
	return &ExecRunner{hgPath: hgPath}
}

// Run executes `hg <subcommand> <args...>` in dir with HGPLAIN=1 and returns stdout.
// A nonzero exit is reported as *domain.ExternalCommandError carrying stderr.
func (r *ExecRunner) Run(ctx context.Context, dir string, stdin io.Reader, subcommand string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	logging.Logger.Debug("Running hg", "subcommand", subcommand, "args", args, "dir", dir)

	cmd := exec.CommandContext(ctx, r.hgPath, append([]string{subcommand}, args...)...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HGPLAIN=1")
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cmdErr := &domain.ExternalCommandError{
			Args:       args,
			Dir:        dir,
			Err:        err,
			Stderr:     stderr.String(),
			Subcommand: subcommand,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		logging.Logger.Error("hg command failed",
			"subcommand", subcommand,
			"args", args,
			"dir", dir,
			"exit_code", cmdErr.ExitCode,
			"stderr", cmdErr.Stderr)
		return stdout.String(), cmdErr
	}

	logging.Logger.Debug("hg command complete", "subcommand", subcommand, "bytes", stdout.Len())
	return stdout.String(), nil
}

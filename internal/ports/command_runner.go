package ports

import (
	"context"
	"io"
)

// CommandRunner executes the version-control executable.
// Run returns captured stdout, or a *domain.ExternalCommandError on nonzero exit.
type CommandRunner interface {
	Run(ctx context.Context, dir string, stdin io.Reader, subcommand string, args ...string) (string, error)
}

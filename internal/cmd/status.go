package cmd

import (
	"context"
	"errors"
	"fmt"

	"merc/internal/domain"
	"merc/internal/ui"
)

// StatusCmd shows the stored state of the repository
type StatusCmd struct{}

// Run executes the status command
func (s *StatusCmd) Run(cli *CLI, ctx context.Context) error {
	container, err := cli.container()
	if err != nil {
		return err
	}

	state, err := container.MercService.Status(ctx, cli.Repository)
	if errors.Is(err, domain.ErrRepoNotInitialized) {
		fmt.Println("No shadow repository. Run `merc break` to create one.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Print(ui.RenderRepoState(state))
	return nil
}

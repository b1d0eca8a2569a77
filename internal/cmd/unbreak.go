package cmd

import (
	"context"
	"errors"
	"fmt"

	"merc/internal/domain"
	"merc/internal/services"
	"merc/internal/ui"
)

// UnbreakCmd moves the shadow subtree back into the source repository
type UnbreakCmd struct {
	KeepSource bool `help:"Keep the shadow repository and its commits"`
}

// Run executes the unbreak command
func (u *UnbreakCmd) Run(cli *CLI, ctx context.Context) error {
	container, err := cli.container()
	if err != nil {
		return err
	}

	result, err := container.MercService.Unbreak(ctx, services.UnbreakParams{
		Dir:        cli.Repository,
		KeepSource: cli.keepSource(u.KeepSource),
	})
	if errors.Is(err, domain.ErrCancelled) {
		fmt.Println("Cancelled, nothing changed.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Moved %d commits back into %s\n\n", result.MovedTree.Len()-1, result.SourceRepoRoot)
	fmt.Println(ui.RenderShadowTree(result.MovedTree))
	if result.ShadowRemoved {
		fmt.Println("\nShadow repository removed.")
	}
	return nil
}

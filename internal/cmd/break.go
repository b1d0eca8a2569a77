package cmd

import (
	"context"
	"errors"
	"fmt"

	"merc/internal/domain"
	"merc/internal/services"
	"merc/internal/ui"
)

// BreakCmd moves the current draft subtree into the shadow repository
type BreakCmd struct {
	KeepSource bool `help:"Keep the draft commits in this repository after replicating them"`
}

// Run executes the break command
func (b *BreakCmd) Run(cli *CLI, ctx context.Context) error {
	container, err := cli.container()
	if err != nil {
		return err
	}

	result, err := container.MercService.Break(ctx, services.BreakParams{
		Dir:        cli.Repository,
		KeepSource: cli.keepSource(b.KeepSource),
	})
	if errors.Is(err, domain.ErrCancelled) {
		fmt.Println("Cancelled, nothing changed.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Moved %d commits to %s\n\n", result.ShadowTree.Len()-1, result.ShadowRepoRoot)
	fmt.Println(ui.RenderShadowTree(result.ShadowTree))
	fmt.Printf("\nSeeded %d base files, synced %d files back into %s\n",
		len(result.BaseFiles), result.SyncedFiles, result.SourceRepoRoot)
	return nil
}

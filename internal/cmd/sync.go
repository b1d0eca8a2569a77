package cmd

import (
	"context"
	"fmt"
)

// SyncCmd replays shadow working copy changes into the source repository
type SyncCmd struct{}

// Run executes the sync command
func (s *SyncCmd) Run(cli *CLI, ctx context.Context) error {
	container, err := cli.container()
	if err != nil {
		return err
	}

	synced, err := container.MercService.Sync(ctx, cli.Repository)
	if err != nil {
		return err
	}

	if synced == 0 {
		fmt.Println("Already in sync.")
		return nil
	}
	fmt.Printf("Synced %d files.\n", synced)
	return nil
}

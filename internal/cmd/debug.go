package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"merc/internal/ui"
)

// DebugCmd groups inspection commands
type DebugCmd struct {
	Deps    DebugDepsCmd    `cmd:"deps" help:"List the base files a break would seed the shadow repository with"`
	Subtree DebugSubtreeCmd `cmd:"subtree" help:"Render the commit subtree around a revision"`
}

// DebugSubtreeCmd renders the subtree around a revision
type DebugSubtreeCmd struct {
	Files bool   `help:"List file changes under each commit" short:"f"`
	Rev   string `arg:"" optional:"" help:"Revision (default: working copy parent)" default:"."`
}

// Run executes the debug subtree command
func (d *DebugSubtreeCmd) Run(cli *CLI, ctx context.Context) error {
	container, err := cli.container()
	if err != nil {
		return err
	}

	tree, err := container.MercService.Subtree(ctx, cli.Repository, d.Rev)
	if err != nil {
		return err
	}

	fmt.Println(ui.RenderCommitTree(tree, d.Files))
	return nil
}

// DebugDepsCmd lists base file dependencies
type DebugDepsCmd struct {
	Format string `help:"Output format: text or json" enum:"text,json" default:"text"`
	Rev    string `arg:"" optional:"" help:"Revision (default: working copy parent)" default:"."`
}

// Run executes the debug deps command
func (d *DebugDepsCmd) Run(cli *CLI, ctx context.Context) error {
	container, err := cli.container()
	if err != nil {
		return err
	}

	deps, err := container.MercService.Dependencies(ctx, cli.Repository, d.Rev)
	if err != nil {
		return err
	}

	files := deps.Sorted()
	if d.Format == "json" {
		data, err := json.MarshalIndent(files, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	for _, f := range files {
		fmt.Println(f)
	}
	return nil
}

// Package prompt asks the user for confirmation and shows progress in the terminal.
package prompt

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/mattn/go-isatty"

	"merc/internal/logging"
	"merc/internal/ports"
)

// ErrNotInteractive is returned when confirmation is needed but stdin is not a terminal
var ErrNotInteractive = errors.New("confirmation required but stdin is not a terminal, pass --yes")

// TerminalPrompter implements ports.Prompter with huh forms
type TerminalPrompter struct {
	assumeYes   bool
	interactive bool
}

// Verify interface compliance at compile time
var _ ports.Prompter = (*TerminalPrompter)(nil)

// NewTerminalPrompter creates a TerminalPrompter. With assumeYes every confirmation is accepted.
func NewTerminalPrompter(assumeYes bool) *TerminalPrompter {
	return &TerminalPrompter{
		assumeYes:   assumeYes,
		interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}
}

// Confirm asks a yes/no question
func (p *TerminalPrompter) Confirm(title, description string) (bool, error) {
	if p.assumeYes {
		logging.Logger.Debug("Confirmation assumed", "title", title)
		return true, nil
	}
	if !p.interactive {
		return false, ErrNotInteractive
	}

	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&confirmed).
				Affirmative("Continue").
				Negative("Cancel"),
		),
	).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}

	logging.Logger.Debug("Confirmation answered", "title", title, "confirmed", confirmed)
	return confirmed, nil
}

// Progress runs action behind a spinner. Without a terminal the action runs plainly.
func (p *TerminalPrompter) Progress(ctx context.Context, title string, action func(ctx context.Context) error) error {
	if !p.interactive {
		return action(ctx)
	}
	return spinner.New().
		Title(title).
		Context(ctx).
		ActionWithErr(action).
		Run()
}

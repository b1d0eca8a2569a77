package ports

import "context"

// Prompter interacts with the user running a command
type Prompter interface {
	Confirm(title, description string) (bool, error)
	Progress(ctx context.Context, title string, action func(ctx context.Context) error) error
}

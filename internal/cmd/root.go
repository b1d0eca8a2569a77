package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"merc/internal/config"
	"merc/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`
	Repository  string           `help:"Directory inside the repository to operate on" short:"R" default:"." type:"path"`
	Yes         bool             `help:"Answer yes to every confirmation" short:"y"`

	Break    BreakCmd    `cmd:"break" help:"Move the draft commits of the working copy into a shadow repository"`
	Unbreak  UnbreakCmd  `cmd:"unbreak" help:"Move the shadow repository commits back onto their source revision"`
	Sync     SyncCmd     `cmd:"sync" help:"Replay shadow working copy changes into this repository"`
	Status   StatusCmd   `cmd:"status" help:"Show what merc knows about this repository"`
	Inspect  DebugCmd    `cmd:"" name:"debug" help:"Inspect subtrees and base files"`
	Settings SettingsCmd `cmd:"settings" help:"Manage settings (meta)"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Precedence: CLI flags > env vars > settings.json > defaults
	if c.settings != nil {
		if c.MaxLogFiles == logging.DefaultMaxLogFiles {
			if _, hasEnv := os.LookupEnv("MERC_MAX_LOG_FILES"); !hasEnv && c.settings.MaxLogFiles != nil {
				c.MaxLogFiles = *c.settings.MaxLogFiles
			}
		}

		if !c.Debug {
			if _, hasEnv := os.LookupEnv("MERC_DEBUG"); !hasEnv && c.settings.Debug != nil && *c.settings.Debug {
				c.Debug = true
			}
		}
	}

	logFilePath, err := logging.Initialize(logging.Config{
		Debug:    c.Debug,
		File:     c.DebugFile,
		MaxFiles: c.MaxLogFiles,
	})
	if err != nil {
		return err
	}

	// hg child processes and nested merc invocations append to the same log file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("MERC_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("MERC_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != logging.DefaultMaxLogFiles {
		os.Setenv("MERC_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	invocationID := uuid.New().String()
	logging.Logger = logging.Logger.With("invocation_id", invocationID)
	logging.Logger.Info("merc starting", "args", os.Args[1:], "repository", c.Repository)

	return nil
}

// container creates the dependency container on first use.
// Commands that never touch a repository, like settings meta, don't open the state database.
func (c *CLI) container() (*Container, error) {
	if c.Container != nil {
		return c.Container, nil
	}

	settings := c.settings
	if settings == nil {
		settings = &config.Settings{}
	}

	container, err := NewContainer(settings, c.Yes)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container
	return container, nil
}

// keepSource resolves --keep-source against the keep_source setting
func (c *CLI) keepSource(flag bool) bool {
	if flag {
		return true
	}
	return c.settings != nil && c.settings.KeepSource != nil && *c.settings.KeepSource
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}

package cmd

import (
	"github.com/spf13/afero"

	adapterhg "merc/internal/adapters/hg"
	adapterlock "merc/internal/adapters/lock"
	adapterprompt "merc/internal/adapters/prompt"
	adapterstorage "merc/internal/adapters/storage"
	"merc/internal/config"
	"merc/internal/logging"
	"merc/internal/ports"
	"merc/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	// Services
	MercService *services.MercService

	// Internal - for cleanup only
	stateRepo ports.StateRepository
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(settings *config.Settings, assumeYes bool) (*Container, error) {
	stateRepo, err := adapterstorage.NewSQLiteRepository(settings.ResolvedDBPath())
	if err != nil {
		return nil, err
	}

	hgPath := settings.ResolvedHgPath()
	logging.Logger.Debug("Creating container", "hg", hgPath, "db", settings.ResolvedDBPath())

	client := adapterhg.NewClient(adapterhg.NewExecRunner(hgPath))
	locker := adapterlock.NewFileLocker(config.GetLockDir())
	prompter := adapterprompt.NewTerminalPrompter(assumeYes)

	mercService := services.NewMercService(
		afero.NewOsFs(),
		client,
		stateRepo,
		locker,
		prompter,
		services.DraftDependencyResolver{},
		settings.ResolvedSeedFile(),
	)

	return &Container{
		MercService: mercService,
		stateRepo:   stateRepo,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.stateRepo != nil {
		return c.stateRepo.Close()
	}
	return nil
}

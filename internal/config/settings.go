package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultSeedFile is copied into a shadow repository when a branch has no base files
const DefaultSeedFile = ".arcconfig"

// DefaultHgPath is the Mercurial executable looked up on PATH
const DefaultHgPath = "hg"

// Settings represents the structure of $MERC_HOME/settings.json
type Settings struct {
	DBPath          string `json:"db_path,omitempty"`
	Debug           *bool  `json:"debug,omitempty"`
	DefaultSeedFile string `json:"default_seed_file,omitempty"`
	HgPath          string `json:"hg_path,omitempty"`
	KeepSource      *bool  `json:"keep_source,omitempty"`
	MaxLogFiles     *int   `json:"max_log_files,omitempty"`
}

// LoadSettings loads settings from $MERC_HOME/settings.json (or ~/.merc/settings.json if not set)
// Returns empty Settings if file doesn't exist (not an error)
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(GetSettingsPath())
}

// LoadSettingsFrom loads settings from an explicit path
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if settings.DBPath != "" {
		settings.DBPath = ExpandPath(settings.DBPath)
	}
	if settings.HgPath != "" {
		settings.HgPath = ExpandPath(settings.HgPath)
	}

	return &settings, nil
}

// ResolvedDBPath returns the configured database path or the default under MERC_HOME
func (s *Settings) ResolvedDBPath() string {
	if s != nil && s.DBPath != "" {
		return s.DBPath
	}
	return GetDBPath()
}

// ResolvedHgPath returns the hg executable, honouring MERC_HG over settings
func (s *Settings) ResolvedHgPath() string {
	if env := os.Getenv("MERC_HG"); env != "" {
		return env
	}
	if s != nil && s.HgPath != "" {
		return s.HgPath
	}
	return DefaultHgPath
}

// ResolvedSeedFile returns the fallback file copied into empty shadow repositories
func (s *Settings) ResolvedSeedFile() string {
	if s != nil && s.DefaultSeedFile != "" {
		return s.DefaultSeedFile
	}
	return DefaultSeedFile
}

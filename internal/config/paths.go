package config

import (
	"os"
	"path/filepath"
)

// ShadowRepoDir is the shadow repository location relative to a source repository root
var ShadowRepoDir = filepath.Join(".hg", "merc")

// RepoConfigFile is the per-repository hg configuration copied into shadow repositories
var RepoConfigFile = filepath.Join(".hg", "hgrc")

// IgnoreFileName is the name of hg ignore files
const IgnoreFileName = ".hgignore"

// GetMercHome returns MERC_HOME or ~/.merc default
func GetMercHome() string {
	mercHome := os.Getenv("MERC_HOME")
	if mercHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".merc"
		}
		return filepath.Join(homeDir, ".merc")
	}
	return ExpandPath(mercHome)
}

// GetDBPath returns $MERC_HOME/state.db
func GetDBPath() string {
	return filepath.Join(GetMercHome(), "state.db")
}

// GetLockDir returns $MERC_HOME/locks
func GetLockDir() string {
	return filepath.Join(GetMercHome(), "locks")
}

// GetSettingsPath returns $MERC_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetMercHome(), "settings.json")
}

// ShadowRepoPath returns the shadow repository path for a source repository
func ShadowRepoPath(sourceRepoRoot string) string {
	return filepath.Join(sourceRepoRoot, ShadowRepoDir)
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}

// Package logging holds the process-wide structured logger.
// Output is discarded unless debug logging is requested; hg child processes and nested merc
// invocations inherit the choice through MERC_DEBUG and MERC_DEBUG_FILE.
package logging

import (
	"cmp"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"

	"github.com/google/uuid"
)

// DefaultMaxLogFiles is the rotation limit used when none is configured
const DefaultMaxLogFiles = 1000

const logExt = ".log"

// Logger is the public logger instance accessible from all packages
var Logger = discard()

// Config selects where debug logs go
type Config struct {
	Debug    bool
	File     string // explicit log file; disables rotation
	MaxFiles int    // rotated files kept in Dir(); 0 keeps all
}

// withEnv fills unset fields from MERC_DEBUG, MERC_DEBUG_FILE and MERC_MAX_LOG_FILES
func (c Config) withEnv() Config {
	if os.Getenv("MERC_DEBUG") == "1" {
		c.Debug = true
	}
	if c.File == "" {
		c.File = os.Getenv("MERC_DEBUG_FILE")
	}
	if c.MaxFiles == DefaultMaxLogFiles {
		if n, err := strconv.Atoi(os.Getenv("MERC_MAX_LOG_FILES")); err == nil {
			c.MaxFiles = n
		}
	}
	return c
}

// Initialize replaces Logger according to cfg and returns the log file path, or "" when discarding
func Initialize(cfg Config) (string, error) {
	cfg = cfg.withEnv()
	if !cfg.Debug && cfg.File == "" {
		Logger = discard()
		return "", nil
	}

	path := cfg.File
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return "", fmt.Errorf("failed to get log directory: %w", err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create log directory: %w", err)
		}
		if cfg.MaxFiles > 0 {
			// keep room for the file about to be created
			if err := prune(dir, cfg.MaxFiles-1); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: log rotation failed: %v\n", err)
			}
		}
		path = filepath.Join(dir, uuid.NewString()+logExt)
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create log file: %w", err)
	}
	Logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Inherited logging stays quiet on stderr
	if os.Getenv("MERC_DEBUG") == "" {
		Logger.Info("Debug logging initialized", "log_file", path)
		fmt.Fprintf(os.Stderr, "Debug mode enabled. Logs: %s\n", path)
	}
	return path, nil
}

// Dir returns the directory rotated log files are written to
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Logs", "merc"), nil
	case "windows":
		base := cmp.Or(os.Getenv("LOCALAPPDATA"), filepath.Join(home, "AppData", "Local"))
		return filepath.Join(base, "merc", "logs"), nil
	default:
		base := cmp.Or(os.Getenv("XDG_STATE_HOME"), filepath.Join(home, ".local", "state"))
		return filepath.Join(base, "merc"), nil
	}
}

// prune deletes the oldest .log files in dir until at most keep remain
func prune(dir string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	type logFile struct {
		name string
		info fs.FileInfo
	}
	var logs []logFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != logExt {
			continue
		}
		if info, err := e.Info(); err == nil {
			logs = append(logs, logFile{name: e.Name(), info: info})
		}
	}
	if len(logs) <= keep {
		return nil
	}

	slices.SortFunc(logs, func(a, b logFile) int {
		return a.info.ModTime().Compare(b.info.ModTime())
	})
	for _, l := range logs[:len(logs)-keep] {
		if err := os.Remove(filepath.Join(dir, l.name)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to delete old log file %s: %v\n", l.name, err)
		}
	}
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	appDirName   = "caselog"
	databaseFile = "caselog.db"
	logoFile     = "logo.png"
	logFile      = "app.log"
	lockFile     = "caselog.lock"
)

// Paths holds the fixed file locations under the application data directory.
type Paths struct {
	DataDir      string
	DatabasePath string
	LogoPath     string
	LogPath      string
	LockPath     string
}

// DefaultPaths resolves the application data directory and creates it if
// needed. All persisted files live under this single directory.
func DefaultPaths() (Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("failed to resolve user config dir: %w", err)
	}

	dataDir := filepath.Join(configDir, appDirName)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("failed to create data dir: %w", err)
	}

	return PathsIn(dataDir), nil
}

// PathsIn builds the path set for an explicit data directory. Used by tests
// and by DefaultPaths.
func PathsIn(dataDir string) Paths {
	return Paths{
		DataDir:      dataDir,
		DatabasePath: filepath.Join(dataDir, databaseFile),
		LogoPath:     filepath.Join(dataDir, logoFile),
		LogPath:      filepath.Join(dataDir, logFile),
		LockPath:     filepath.Join(dataDir, lockFile),
	}
}

// AcquireInstanceLock takes an exclusive lock on the data directory so a
// second process cannot open the same database. Callers must Unlock on exit.
func AcquireInstanceLock(lockPath string) (*flock.Flock, error) {
	fileLock := flock.New(lockPath)

	acquired, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire instance lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("another instance is already running (lock held on %s)", lockPath)
	}

	return fileLock, nil
}

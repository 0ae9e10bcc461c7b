package paths

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/slim/pkg/errors"
)

// Environment variable names
const (
	// EnvSlimStateDir overrides the XDG state directory for slim
	EnvSlimStateDir = "SLIM_STATE_DIR"

	// EnvSlimConfigDir overrides the XDG config directory for slim
	EnvSlimConfigDir = "SLIM_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// SlimDirName is the directory name for slim-specific files
	SlimDirName = "slim"

	// LocksDir is the state subdirectory holding per-profile lock files
	LocksDir = "locks"

	// LogFileName is the name of slim's diagnostic log file
	LogFileName = "slim.log"

	// ConfigFileName is the user config file under the config directory
	ConfigFileName = "config.toml"

	// ProfileConfigFile is an optional per-profile override file
	ProfileConfigFile = ".slim.toml"

	// ResidualSuffix is appended to the undo log name for records that
	// could not be restored
	ResidualSuffix = ".failed"
)

// NormalizePath expands ~, makes path absolute and cleans it.
func NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}

	return filepath.Clean(abs), nil
}

// ProfileName returns the identifying name of a profile root (its base name).
func ProfileName(profileRoot string) string {
	return filepath.Base(filepath.Clean(profileRoot))
}

// DefaultRelocationBase is used when no base is configured. On Windows it
// is the root of the profile's volume (C:\ for C:\Users\alice); elsewhere it
// is the directory that contains the profile (/home for /home/alice).
func DefaultRelocationBase(profileRoot string) string {
	clean := filepath.Clean(profileRoot)
	if runtime.GOOS == "windows" {
		if vol := filepath.VolumeName(clean); vol != "" {
			return vol + string(filepath.Separator)
		}
	}
	return filepath.Dir(clean)
}

// RelocationRoot derives <base>/<prefix><profileName>. An empty base falls
// back to DefaultRelocationBase.
func RelocationRoot(profileRoot, base, prefix string) string {
	if base == "" {
		base = DefaultRelocationBase(profileRoot)
	}
	return filepath.Join(expandHome(base), prefix+ProfileName(profileRoot))
}

// UndoLogPath returns the location of the undo log inside the profile root.
func UndoLogPath(profileRoot, logFileName string) string {
	return filepath.Join(profileRoot, logFileName)
}

// ResidualLogPath returns where unrestorable records are kept after undo.
func ResidualLogPath(logPath string) string {
	return logPath + ResidualSuffix
}

// IsWithin reports whether child is parent or lies under it.
func IsWithin(parent, child string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// StateDir returns slim's state directory, honouring SLIM_STATE_DIR and
// XDG_STATE_HOME.
func StateDir() string {
	if dir := os.Getenv(EnvSlimStateDir); dir != "" {
		return expandHome(dir)
	}
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		return filepath.Join(stateDir, SlimDirName)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(xdg.StateHome, SlimDirName)
	}
	return filepath.Join(homeDir, ".local", "state", SlimDirName)
}

// ConfigDir returns slim's config directory, honouring SLIM_CONFIG_DIR.
func ConfigDir() string {
	if dir := os.Getenv(EnvSlimConfigDir); dir != "" {
		return expandHome(dir)
	}
	if configDir := os.Getenv("XDG_CONFIG_HOME"); configDir != "" {
		return filepath.Join(configDir, SlimDirName)
	}
	return filepath.Join(xdg.ConfigHome, SlimDirName)
}

// LogFilePath returns the path of slim's diagnostic log.
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// UserConfigPath returns the default user config file.
func UserConfigPath() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// LockFilePath returns the lock file guarding operations on profileRoot.
// Lock files live in the state dir so nothing extra appears in the profile.
func LockFilePath(profileRoot string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(profileRoot)))
	name := ProfileName(profileRoot) + "-" + hex.EncodeToString(sum[:])[:16] + ".lock"
	return filepath.Join(StateDir(), LocksDir, name)
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// Package project provides project discovery and loading functionality.
package project

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigDirName is the name of the xcov configuration directory.
const ConfigDirName = ".xcov"

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "config.json"

// LockFileName marks the root of a Cargo workspace when no config exists.
const LockFileName = "Cargo.lock"

// ManifestFileName is the Cargo manifest every workspace root must contain.
const ManifestFileName = "Cargo.toml"

// ErrNoProjectRoot is returned when neither .xcov/config.json nor Cargo.lock is found.
var ErrNoProjectRoot = errors.New(".xcov/config.json or Cargo.lock not found: not a Cargo workspace (or any parent up to the root)")

// FindRoot walks up from the current working directory to locate the project root.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(cwd)
}

// FindRootFrom returns the nearest ancestor of startDir (inclusive) containing
// .xcov/config.json. When there is none it falls back to the nearest ancestor
// containing Cargo.lock.
func FindRootFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	if root, ok := walkUp(dir, filepath.Join(ConfigDirName, ConfigFileName)); ok {
		return root, nil
	}
	if root, ok := walkUp(dir, LockFileName); ok {
		return root, nil
	}
	return "", ErrNoProjectRoot
}

// HasConfig reports whether root contains .xcov/config.json.
func HasConfig(root string) bool {
	return isFile(filepath.Join(root, ConfigDirName, ConfigFileName))
}

func walkUp(dir, marker string) (string, bool) {
	for {
		if isFile(filepath.Join(dir, marker)) {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", false
		}
		dir = parent
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

package toolchain

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

var errNotFound = errors.New("not found")

// executableName appends the platform executable suffix.
func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// findFile walks root for a regular executable file with the given base name.
// Unreadable subdirectories are skipped. Returns errNotFound when absent.
func findFile(root, name string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || d.Name() != name {
			return nil
		}
		if isExecutable(path) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", errNotFound
	}
	return found, nil
}

// isExecutable follows symlinks; rustup links toolchain binaries on some hosts.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

package project

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/xcov/internal/config"
	"github.com/AndreyAkinshin/xcov/internal/errors"
)

// Project represents a resolved Cargo workspace and its coverage settings.
type Project struct {
	Root       string
	ConfigFile string // empty when running on defaults
	Config     *config.Config
	Paths      config.Paths
	Warnings   []string
}

// Options override project discovery.
type Options struct {
	ConfigPath string // explicit config file; skips discovery
	Workspace  string // Cargo workspace directory; overrides the configured one
}

// Load resolves the project according to opts. Without an explicit config
// file the root is discovered from the workspace flag or the working directory.
func Load(opts Options) (*Project, error) {
	var root, configFile string

	if opts.ConfigPath != "" {
		abs, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		root, configFile = RootForConfig(abs), abs
	} else {
		found, err := findRoot(opts.Workspace)
		if err != nil {
			return nil, errors.WrapConfig(err, "cannot locate project")
		}
		root = found
		if HasConfig(root) {
			configFile = filepath.Join(root, ConfigDirName, ConfigFileName)
		}
	}

	workspace := ""
	if opts.Workspace != "" {
		abs, err := filepath.Abs(opts.Workspace)
		if err != nil {
			return nil, err
		}
		workspace = abs
	}

	return load(root, configFile, workspace)
}

// findRoot discovers the project root from the working directory, or from
// workspace when given. An explicit workspace holding Cargo.toml is its own
// root even without Cargo.lock.
func findRoot(workspace string) (string, error) {
	if workspace == "" {
		return FindRoot()
	}
	root, err := FindRootFrom(workspace)
	if stderrors.Is(err, ErrNoProjectRoot) && isFile(filepath.Join(workspace, ManifestFileName)) {
		return filepath.Abs(workspace)
	}
	return root, err
}

// LoadProjectFrom loads a project from a specified root directory.
// Without .xcov/config.json the defaults apply.
func LoadProjectFrom(root string) (*Project, error) {
	configFile := ""
	if HasConfig(root) {
		configFile = filepath.Join(root, ConfigDirName, ConfigFileName)
	}
	return load(root, configFile, "")
}

// RootForConfig returns the project root owning a config file: the parent of
// the .xcov directory, or the file's own directory otherwise.
func RootForConfig(configFile string) string {
	dir := filepath.Dir(configFile)
	if filepath.Base(dir) == ConfigDirName {
		return filepath.Dir(dir)
	}
	return dir
}

func load(root, configFile, workspace string) (*Project, error) {
	cfg := config.Default()
	var warnings []string

	if configFile != "" {
		var err error
		cfg, warnings, err = config.LoadAndValidate(configFile)
		if err != nil {
			return nil, errors.WrapConfig(err, "failed to load configuration")
		}
	}
	if workspace != "" {
		cfg.Workspace = workspace
	}

	paths := cfg.Resolve(root)
	if err := validateWorkspace(paths.Workspace); err != nil {
		return nil, errors.WrapConfig(err, "invalid workspace")
	}

	return &Project{
		Root:       root,
		ConfigFile: configFile,
		Config:     cfg,
		Paths:      paths,
		Warnings:   warnings,
	}, nil
}

// validateWorkspace checks that dir exists and holds a Cargo manifest.
func validateWorkspace(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("workspace directory not found: %s", dir)
	}
	if err != nil {
		return fmt.Errorf("workspace directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("workspace path is not a directory: %s", dir)
	}
	if !isFile(filepath.Join(dir, ManifestFileName)) {
		return fmt.Errorf("workspace %s has no %s", dir, ManifestFileName)
	}
	return nil
}

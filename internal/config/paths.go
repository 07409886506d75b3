package config

import (
	"path/filepath"
)

// Paths are the absolute filesystem locations a pipeline run works with.
type Paths struct {
	Workspace   string
	CoverageDir string
	Profdata    string
	LCOV        string
	PatchFile   string // empty when patching is disabled
	Summary     string
	Metrics     string
}

// Resolve computes absolute paths for a defaulted configuration.
// root is the directory containing .xcov/ (or the detected workspace).
func (c *Config) Resolve(root string) Paths {
	workspace := resolve(root, c.Workspace)
	coverageDir := resolve(workspace, c.Coverage.Directory)

	p := Paths{
		Workspace:   workspace,
		CoverageDir: coverageDir,
		Profdata:    filepath.Join(coverageDir, c.Coverage.Profdata),
		LCOV:        filepath.Join(coverageDir, c.Coverage.LCOV),
		Summary:     filepath.Join(coverageDir, DefaultSummaryFile),
		Metrics:     filepath.Join(coverageDir, DefaultMetricsFile),
	}
	if c.Coverage.Patch != nil && *c.Coverage.Patch != "" {
		p.PatchFile = resolve(workspace, *c.Coverage.Patch)
	}
	return p
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

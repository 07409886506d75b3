// Package config provides loading and validation of .xcov/config.json.
package config

// Config represents the complete .xcov/config.json configuration.
// Every section is optional; applyDefaults fills in the rest.
type Config struct {
	Workspace string           `json:"workspace,omitempty"` // Cargo workspace, relative to the project root
	Coverage  *CoverageConfig  `json:"coverage,omitempty"`
	Toolchain *ToolchainConfig `json:"toolchain,omitempty"`
	Build     *BuildConfig     `json:"build,omitempty"`
}

// CoverageConfig configures the coverage output directory and reports.
type CoverageConfig struct {
	Directory string   `json:"directory,omitempty"` // relative to the workspace
	Profdata  string   `json:"profdata,omitempty"`  // relative to the coverage directory
	LCOV      string   `json:"lcov,omitempty"`      // relative to the coverage directory
	Patch     *string  `json:"patch,omitempty"`     // relative to the workspace; "" disables patching
	Ignore    []string `json:"ignore,omitempty"`    // extra --ignore-filename-regex values
	Summary   *bool    `json:"summary,omitempty"`   // write summary.yaml (default: true)
	Metrics   *bool    `json:"metrics,omitempty"`   // write coverage.prom (default: true)
}

// ToolchainConfig names the external executables.
type ToolchainConfig struct {
	Compiler  string `json:"compiler,omitempty"`
	Cargo     string `json:"cargo,omitempty"`
	Rustup    string `json:"rustup,omitempty"`
	Component string `json:"component,omitempty"` // rustup component providing llvm-profdata and llvm-cov
	Demangler string `json:"demangler,omitempty"`
	Patch     string `json:"patch,omitempty"`
	RustFlags string `json:"rustflags,omitempty"`
}

// BuildConfig configures the cargo invocations shared by the build and
// execute stages.
type BuildConfig struct {
	Args []string `json:"args,omitempty"` // package/workspace/target selectors, replaces the default
}

// SummaryEnabled reports whether summary.yaml should be written.
func (c *CoverageConfig) SummaryEnabled() bool {
	return c.Summary == nil || *c.Summary
}

// MetricsEnabled reports whether coverage.prom should be written.
func (c *CoverageConfig) MetricsEnabled() bool {
	return c.Metrics == nil || *c.Metrics
}

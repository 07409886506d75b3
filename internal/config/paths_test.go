package config

import (
	"path/filepath"
	"testing"
)

func TestConfig_Resolve_Defaults(t *testing.T) {
	t.Parallel()
	root := filepath.FromSlash("/work/repo")

	p := Default().Resolve(root)

	cov := filepath.Join(root, "target", "coverage")
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"workspace", p.Workspace, root},
		{"coverage dir", p.CoverageDir, cov},
		{"profdata", p.Profdata, filepath.Join(cov, "coverage.profdata")},
		{"lcov", p.LCOV, filepath.Join(cov, "lcov.info")},
		{"patch", p.PatchFile, filepath.Join(root, "coverage-style.css.patch")},
		{"summary", p.Summary, filepath.Join(cov, "summary.yaml")},
		{"metrics", p.Metrics, filepath.Join(cov, "coverage.prom")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestConfig_Resolve_Custom(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	abs := filepath.Join(root, "elsewhere")
	noPatch := ""

	cfg := &Config{
		Workspace: "crates",
		Coverage:  &CoverageConfig{Directory: abs, Patch: &noPatch},
	}
	applyDefaults(cfg)
	p := cfg.Resolve(root)

	if p.Workspace != filepath.Join(root, "crates") {
		t.Errorf("Workspace = %q, want %q", p.Workspace, filepath.Join(root, "crates"))
	}
	if p.CoverageDir != abs {
		t.Errorf("CoverageDir = %q, want %q", p.CoverageDir, abs)
	}
	if p.PatchFile != "" {
		t.Errorf("PatchFile = %q, want empty when patching is disabled", p.PatchFile)
	}
}

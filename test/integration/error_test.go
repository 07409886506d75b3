package integration

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/xcov/internal/config"
	"github.com/AndreyAkinshin/xcov/internal/errors"
	"github.com/AndreyAkinshin/xcov/internal/project"
)

func TestProjectNotFoundError(t *testing.T) {
	t.Parallel()
	_, err := project.Load(project.Options{Workspace: t.TempDir()})
	if err == nil {
		t.Fatal("expected error outside a Cargo workspace")
	}
	if !stderrors.Is(err, project.ErrNoProjectRoot) {
		t.Errorf("expected ErrNoProjectRoot, got %v", err)
	}
	if code := errors.GetExitCode(err); code != errors.ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitConfigError)
	}
}

func TestConfigFileMissingError(t *testing.T) {
	t.Parallel()
	configPath := filepath.Join(t.TempDir(), ".xcov", "config.json")

	_, err := config.Load(configPath)
	if err == nil {
		t.Error("expected error when loading missing config file")
	}
}

func TestConfigInvalidJSONError(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	xcovDir := filepath.Join(tmpDir, ".xcov")
	if err := mkdir(xcovDir); err != nil {
		t.Fatalf("failed to create .xcov dir: %v", err)
	}
	configPath := filepath.Join(xcovDir, "config.json")

	if err := writeFile(configPath, "{ invalid json }"); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := config.Load(configPath)
	if err == nil {
		t.Error("expected error when loading invalid JSON config")
	}
}

func TestReservedBuildArgError(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	if err := writeFile(filepath.Join(tmpDir, "Cargo.toml"), "[workspace]\n"); err != nil {
		t.Fatal(err)
	}
	if err := mkdir(filepath.Join(tmpDir, ".xcov")); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(tmpDir, ".xcov", "config.json"), `{"build": {"args": ["--tests", "--target-dir", "out"]}}`); err != nil {
		t.Fatal(err)
	}

	_, err := project.LoadProjectFrom(tmpDir)
	if err == nil {
		t.Fatal("expected error for reserved build argument")
	}
	if !strings.Contains(err.Error(), "--target-dir") {
		t.Errorf("error %q should name the reserved argument", err)
	}
	if !errors.IsKind(err, errors.KindConfig) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestUnknownFieldWarning(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	if err := writeFile(filepath.Join(tmpDir, "Cargo.toml"), "[workspace]\n"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(tmpDir, "coverage-style.css.patch"), ""); err != nil {
		t.Fatal(err)
	}
	if err := mkdir(filepath.Join(tmpDir, ".xcov")); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(tmpDir, ".xcov", "config.json"), `{"coverage": {"directroy": "cov"}}`); err != nil {
		t.Fatal(err)
	}

	proj, err := project.LoadProjectFrom(tmpDir)
	if err != nil {
		t.Fatalf("unknown fields should warn, not fail: %v", err)
	}
	if len(proj.Warnings) != 1 || !strings.Contains(proj.Warnings[0], "directroy") {
		t.Errorf("warnings = %v, want one naming the unknown field", proj.Warnings)
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func mkdir(path string) error {
	return os.MkdirAll(path, 0755)
}

package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/xcov/internal/lcov"
	"github.com/AndreyAkinshin/xcov/internal/metrics"
)

// Integration tests for report post-processing against a recorded tracefile.
// Parser and aggregation details are unit tested in internal/lcov.

func TestSummarizeSampleTracefile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(fixturesDir(), "lcov", "sample.info")

	report, err := lcov.ParseFile(path)
	if err != nil {
		t.Fatalf("failed to parse sample tracefile: %v", err)
	}
	if len(report.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(report.Files))
	}

	s := lcov.Summarize(report, "/work/crates")

	if s.Lines.Total != 7 || s.Lines.Covered != 5 {
		t.Errorf("lines = %d/%d, want 5/7", s.Lines.Covered, s.Lines.Total)
	}
	if s.Functions.Total != 3 || s.Functions.Covered != 2 {
		t.Errorf("functions = %d/%d, want 2/3", s.Functions.Covered, s.Functions.Total)
	}
	if s.Branches.Total != 2 || s.Branches.Covered != 1 {
		t.Errorf("branches = %d/%d, want 1/2", s.Branches.Covered, s.Branches.Total)
	}

	wantPaths := []string{"core/src/lib.rs", "core/src/util.rs"}
	for i, f := range s.Files {
		if f.Path != wantPaths[i] {
			t.Errorf("file %d = %q, want %q", i, f.Path, wantPaths[i])
		}
	}
}

func TestSummaryAndMetricsFiles(t *testing.T) {
	t.Parallel()
	report, err := lcov.ParseFile(filepath.Join(fixturesDir(), "lcov", "sample.info"))
	if err != nil {
		t.Fatalf("failed to parse sample tracefile: %v", err)
	}
	s := lcov.Summarize(report, "/work/crates")
	dir := t.TempDir()

	summaryPath := filepath.Join(dir, "summary.yaml")
	if err := s.WriteFile(summaryPath); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "path: core/src/util.rs") {
		t.Errorf("summary.yaml missing relative path:\n%s", data)
	}

	rec := metrics.NewRecorder()
	rec.RecordSummary(s)
	promPath := filepath.Join(dir, "coverage.prom")
	if err := rec.WriteTextfile(promPath); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err = os.ReadFile(promPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"xcov_lines_total 7", "xcov_lines_covered 5", "xcov_functions_total 3"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("coverage.prom missing %q", want)
		}
	}
}

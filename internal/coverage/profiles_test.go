package coverage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	xerrors "github.com/AndreyAkinshin/xcov/internal/errors"
	"github.com/AndreyAkinshin/xcov/internal/testing/mocks"
)

func TestListRawProfiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.profraw"))
	touch(t, filepath.Join(dir, "a.profraw"))
	touch(t, filepath.Join(dir, "coverage.profdata"))
	touch(t, filepath.Join(dir, "notes.profraw.txt"))
	if err := os.MkdirAll(filepath.Join(dir, "nested.profraw"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "debug"), 0755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dir, "debug", "c.profraw"))

	got, err := ListRawProfiles(dir)
	if err != nil {
		t.Fatalf("ListRawProfiles() error = %v", err)
	}
	assertArgs(t, got, []string{filepath.Join(dir, "a.profraw"), filepath.Join(dir, "b.profraw")})
}

func TestListRawProfiles_MissingDir(t *testing.T) {
	t.Parallel()
	_, err := ListRawProfiles(filepath.Join(t.TempDir(), "missing"))
	if !os.IsNotExist(err) {
		t.Errorf("ListRawProfiles() error = %v, want not-exist", err)
	}
}

func TestPipeline_CleanRawProfiles(t *testing.T) {
	t.Parallel()
	f := newFixture(t, mocks.NewExec())
	touch(t, filepath.Join(f.paths.CoverageDir, "1-a.profraw"))
	touch(t, filepath.Join(f.paths.CoverageDir, "2-b.profraw"))
	touch(t, f.paths.Profdata)

	if n := f.pipeline.CleanRawProfiles(); n != 2 {
		t.Errorf("CleanRawProfiles() = %d, want 2", n)
	}
	left, _ := ListRawProfiles(f.paths.CoverageDir)
	if len(left) != 0 {
		t.Errorf("raw profiles left = %q", left)
	}
	if _, err := os.Stat(f.paths.Profdata); err != nil {
		t.Errorf("profdata removed: %v", err)
	}
}

func TestPipeline_CleanRawProfiles_MissingDir(t *testing.T) {
	t.Parallel()
	f := newFixture(t, mocks.NewExec())
	f.pipeline.paths.CoverageDir = filepath.Join(t.TempDir(), "missing")

	if n := f.pipeline.CleanRawProfiles(); n != 0 {
		t.Errorf("CleanRawProfiles() = %d, want 0", n)
	}
}

func TestPipeline_Merge_Args(t *testing.T) {
	t.Parallel()
	f := newFixture(t, mocks.NewExec().Expect(mocks.Succeed()))
	dir := f.paths.CoverageDir
	touch(t, filepath.Join(dir, "b.profraw"))
	touch(t, filepath.Join(dir, "a.profraw"))

	merged, err := f.pipeline.Merge(context.Background(), testTools)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if merged.Empty || merged.Inputs != 2 || merged.Path != f.paths.Profdata {
		t.Errorf("Merge() = %+v", merged)
	}
	assertArgs(t, f.exec.Argv(0), []string{
		testTools.Profdata, "merge", "--sparse", "--output", f.paths.Profdata,
		filepath.Join(dir, "a.profraw"), filepath.Join(dir, "b.profraw"),
	})
}

func TestPipeline_Merge_Empty(t *testing.T) {
	t.Parallel()
	f := newFixture(t, mocks.NewExec())

	merged, err := f.pipeline.Merge(context.Background(), testTools)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if !merged.Empty || merged.Inputs != 0 {
		t.Errorf("Merge() = %+v, want empty", merged)
	}
	if f.exec.Calls() != 0 {
		t.Errorf("commands run = %d, want 0", f.exec.Calls())
	}
	info, err := os.Stat(f.paths.Profdata)
	if err != nil {
		t.Fatalf("profdata not written: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("profdata size = %d, want 0", info.Size())
	}
}

func TestPipeline_Merge_Failure(t *testing.T) {
	t.Parallel()
	f := newFixture(t, mocks.NewExec().Expect(mocks.Fail(1)))
	touch(t, filepath.Join(f.paths.CoverageDir, "a.profraw"))

	_, err := f.pipeline.Merge(context.Background(), testTools)
	if !xerrors.IsCommandFailed(err, "merge") {
		t.Errorf("Merge() error = %v, want merge failure", err)
	}
}

// Profiles from an earlier run must never reach the merger.
func TestPipeline_StaleProfilesNotMerged(t *testing.T) {
	t.Parallel()
	var f *fixture
	fake := mocks.NewExec().
		Expect(mocks.Do(func() error { touch(t, filepath.Join(f.paths.CoverageDir, "100-run1.profraw")); return nil })).
		Expect(mocks.Succeed()).
		Expect(mocks.Do(func() error { touch(t, filepath.Join(f.paths.CoverageDir, "200-run2.profraw")); return nil })).
		Expect(mocks.Succeed())
	f = newFixture(t, fake)
	ctx := context.Background()

	for run := 0; run < 2; run++ {
		f.pipeline.CleanRawProfiles()
		if _, err := f.pipeline.Execute(ctx); err != nil {
			t.Fatalf("run %d: Execute() error = %v", run+1, err)
		}
		if _, err := f.pipeline.Merge(ctx, testTools); err != nil {
			t.Fatalf("run %d: Merge() error = %v", run+1, err)
		}
	}

	assertArgs(t, f.exec.Argv(3), []string{
		testTools.Profdata, "merge", "--sparse", "--output", f.paths.Profdata,
		filepath.Join(f.paths.CoverageDir, "200-run2.profraw"),
	})
}

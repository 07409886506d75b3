package lcov

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleTrace = `TN:
SF:/work/repo/src/lib.rs
FN:3,lib::add
FN:9,lib::unused
FNDA:4,lib::add
FNDA:0,lib::unused
FNF:2
FNH:1
DA:3,4
DA:4,4
DA:9,0
BRF:2
BRH:1
LF:3
LH:2
end_of_record
SF:/work/repo/src/main.rs
DA:1,1
DA:2,0
DA:2,3
DA:5,0
end_of_record
`

func TestParse(t *testing.T) {
	t.Parallel()
	report, err := Parse(strings.NewReader(sampleTrace))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(report.Files) != 2 {
		t.Fatalf("len(Files) = %d, want 2", len(report.Files))
	}

	lib := report.Files[0]
	want := FileCoverage{
		Path:           "/work/repo/src/lib.rs",
		LinesFound:     3,
		LinesHit:       2,
		FunctionsFound: 2,
		FunctionsHit:   1,
		BranchesFound:  2,
		BranchesHit:    1,
	}
	if lib != want {
		t.Errorf("Files[0] = %+v, want %+v", lib, want)
	}

	// No LF/LH: derived from DA, repeated lines merged.
	main := report.Files[1]
	if main.LinesFound != 3 || main.LinesHit != 2 {
		t.Errorf("Files[1] lines = %d/%d, want 2/3", main.LinesHit, main.LinesFound)
	}
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()
	report, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(report.Files) != 0 {
		t.Errorf("len(Files) = %d, want 0", len(report.Files))
	}
}

func TestParse_MissingEndOfRecord(t *testing.T) {
	t.Parallel()
	report, err := Parse(strings.NewReader("SF:a.rs\nDA:1,1\r\nSF:b.rs\nDA:1,0\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(report.Files) != 2 {
		t.Fatalf("len(Files) = %d, want 2", len(report.Files))
	}
	if report.Files[0].LinesHit != 1 || report.Files[1].LinesHit != 0 {
		t.Errorf("Files = %+v", report.Files)
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bad DA count", "SF:a.rs\nDA:1,x\n", "line 2: DA"},
		{"DA without count", "SF:a.rs\nDA:1\n", "line 2: DA"},
		{"bad LF", "SF:a.rs\nLF:many\n", "line 2: LF"},
		{"bad FNDA", "SF:a.rs\nFNDA:oops\n", "line 2: FNDA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestParse_IgnoresRecordsOutsideFile(t *testing.T) {
	t.Parallel()
	report, err := Parse(strings.NewReader("TN:x\nDA:1,1\nVER:2\nSF:a.rs\nDA:1,1\nend_of_record\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(report.Files) != 1 || report.Files[0].LinesFound != 1 {
		t.Errorf("Files = %+v", report.Files)
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "lcov.info")
	if err := os.WriteFile(path, []byte(sampleTrace), 0644); err != nil {
		t.Fatal(err)
	}

	report, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(report.Files) != 2 {
		t.Errorf("len(Files) = %d, want 2", len(report.Files))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.info")); !os.IsNotExist(err) {
		t.Errorf("ParseFile(missing) error = %v, want not-exist", err)
	}
}

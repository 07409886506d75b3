// Package lcov reads LCOV tracefiles and summarises their coverage.
package lcov

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// FileCoverage holds the counters of one source file record.
type FileCoverage struct {
	Path           string
	LinesFound     int
	LinesHit       int
	FunctionsFound int
	FunctionsHit   int
	BranchesFound  int
	BranchesHit    int
}

// Report is a parsed tracefile. Files keep tracefile order.
type Report struct {
	Files []FileCoverage
}

// record accumulates one SF..end_of_record block. Explicit LF/LH and
// FNF/FNH summaries take precedence over counts derived from DA and FNDA.
type record struct {
	file      FileCoverage
	lines     map[int]bool // line -> hit
	functions map[string]bool
	haveLines bool
	haveFuncs bool
}

func newRecord(path string) *record {
	return &record{
		file:      FileCoverage{Path: path},
		lines:     make(map[int]bool),
		functions: make(map[string]bool),
	}
}

func (r *record) finish() FileCoverage {
	fc := r.file
	if !r.haveLines {
		fc.LinesFound = len(r.lines)
		for _, hit := range r.lines {
			if hit {
				fc.LinesHit++
			}
		}
	}
	if !r.haveFuncs {
		fc.FunctionsFound = len(r.functions)
		for _, hit := range r.functions {
			if hit {
				fc.FunctionsHit++
			}
		}
	}
	return fc
}

// ParseFile parses the tracefile at path.
func ParseFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	report, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}

// Parse reads a tracefile. Unknown record types are ignored; malformed
// counters are an error.
func Parse(r io.Reader) (*Report, error) {
	report := &Report{}
	var cur *record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "end_of_record" {
			if cur != nil {
				report.Files = append(report.Files, cur.finish())
				cur = nil
			}
			continue
		}

		tag, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if tag == "SF" {
			if cur != nil {
				report.Files = append(report.Files, cur.finish())
			}
			cur = newRecord(value)
			continue
		}
		if cur == nil {
			continue
		}
		if err := cur.apply(tag, value); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineNo, tag, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Tolerate a missing final end_of_record.
	if cur != nil {
		report.Files = append(report.Files, cur.finish())
	}
	return report, nil
}

func (r *record) apply(tag, value string) error {
	switch tag {
	case "DA":
		fields := strings.Split(value, ",")
		if len(fields) < 2 {
			return fmt.Errorf("expected line,count")
		}
		line, err := strconv.Atoi(fields[0])
		if err != nil {
			return err
		}
		count, err := parseCount(fields[1])
		if err != nil {
			return err
		}
		r.lines[line] = r.lines[line] || count > 0
	case "FNDA":
		count, name, ok := strings.Cut(value, ",")
		if !ok {
			return fmt.Errorf("expected count,name")
		}
		n, err := parseCount(count)
		if err != nil {
			return err
		}
		r.functions[name] = r.functions[name] || n > 0
	case "LF":
		r.haveLines = true
		return setInt(&r.file.LinesFound, value)
	case "LH":
		r.haveLines = true
		return setInt(&r.file.LinesHit, value)
	case "FNF":
		r.haveFuncs = true
		return setInt(&r.file.FunctionsFound, value)
	case "FNH":
		r.haveFuncs = true
		return setInt(&r.file.FunctionsHit, value)
	case "BRF":
		return setInt(&r.file.BranchesFound, value)
	case "BRH":
		return setInt(&r.file.BranchesHit, value)
	}
	return nil
}

// parseCount accepts the float counts some exporters emit for large values.
func parseCount(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func setInt(dst *int, s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

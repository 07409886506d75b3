package lcov

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Counter is a covered/total pair.
type Counter struct {
	Total   int     `yaml:"total"`
	Covered int     `yaml:"covered"`
	Percent float64 `yaml:"percent"`
}

// Ratio returns Covered/Total, or 0 when Total is 0.
func (c Counter) Ratio() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Covered) / float64(c.Total)
}

func newCounter(total, covered int) Counter {
	c := Counter{Total: total, Covered: covered}
	c.Percent = math.Round(c.Ratio()*10000) / 100
	return c
}

// FileSummary is the coverage of one source file.
type FileSummary struct {
	Path      string  `yaml:"path"`
	Lines     Counter `yaml:"lines"`
	Functions Counter `yaml:"functions"`
	Branches  Counter `yaml:"branches,omitempty"`
}

// Summary is the aggregated coverage written to summary.yaml.
type Summary struct {
	Lines     Counter       `yaml:"lines"`
	Functions Counter       `yaml:"functions"`
	Branches  Counter       `yaml:"branches"`
	Files     []FileSummary `yaml:"files,omitempty"`
}

// Summarize aggregates a report. File paths under root are made relative to
// it; files are sorted by path.
func Summarize(report *Report, root string) *Summary {
	var lf, lh, fnf, fnh, brf, brh int
	files := make([]FileSummary, 0, len(report.Files))

	for _, f := range report.Files {
		lf += f.LinesFound
		lh += f.LinesHit
		fnf += f.FunctionsFound
		fnh += f.FunctionsHit
		brf += f.BranchesFound
		brh += f.BranchesHit

		files = append(files, FileSummary{
			Path:      relativePath(root, f.Path),
			Lines:     newCounter(f.LinesFound, f.LinesHit),
			Functions: newCounter(f.FunctionsFound, f.FunctionsHit),
			Branches:  newCounter(f.BranchesFound, f.BranchesHit),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return &Summary{
		Lines:     newCounter(lf, lh),
		Functions: newCounter(fnf, fnh),
		Branches:  newCounter(brf, brh),
		Files:     files,
	}
}

func relativePath(root, path string) string {
	if root == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// YAML renders the summary document.
func (s *Summary) YAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}
	return data, nil
}

// WriteFile writes the summary as YAML to path.
func (s *Summary) WriteFile(path string) error {
	data, err := s.YAML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Package testparser summarises the human-readable output of `cargo test`.
package testparser

// FailedTest holds information about a single failed test.
type FailedTest struct {
	Name string // Test path as printed by the harness (e.g. "parser::tests::empty")
}

// TestCounts holds parsed test result counts.
type TestCounts struct {
	Passed      int
	Failed      int
	Skipped     int
	Total       int
	Parsed      bool         // true if at least one result line was found
	FailedTests []FailedTest // failed tests in output order
}

// Add adds another TestCounts to this one, aggregating the counts.
// Parsed is sticky: the aggregate is parsed if any part was.
func (tc *TestCounts) Add(other *TestCounts) {
	if other == nil {
		return
	}
	tc.Passed += other.Passed
	tc.Failed += other.Failed
	tc.Skipped += other.Skipped
	tc.Total += other.Total
	tc.FailedTests = append(tc.FailedTests, other.FailedTests...)
	if other.Parsed {
		tc.Parsed = true
	}
}

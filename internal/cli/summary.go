package cli

import (
	"fmt"

	"github.com/AndreyAkinshin/xcov/internal/lcov"
	"github.com/AndreyAkinshin/xcov/internal/testparser"
)

// printTestSummary prints the aggregated cargo test results.
func printTestSummary(counts *testparser.TestCounts) {
	out.SummaryHeader("Test Summary")

	out.SummaryPassed("Passed", fmt.Sprintf("%d", counts.Passed))
	if counts.Failed > 0 {
		out.SummaryFailed("Failed", fmt.Sprintf("%d", counts.Failed))
	}
	if counts.Skipped > 0 {
		out.SummaryItem("Ignored", fmt.Sprintf("%d", counts.Skipped))
	}
	out.SummaryItem("Total", fmt.Sprintf("%d", counts.Total))

	if len(counts.FailedTests) > 0 {
		out.Println("")
		out.SummarySectionLabel("Failed Tests:")
		for _, ft := range counts.FailedTests {
			out.SummaryFailed("  "+ft.Name, "FAILED")
		}
	}
}

// printCoverageSummary prints totals of an LCOV summary.
func printCoverageSummary(s *lcov.Summary) {
	out.SummaryHeader("Coverage Summary")

	out.SummaryItem("Files", fmt.Sprintf("%d", len(s.Files)))
	out.SummaryItem("Lines", formatCounter(s.Lines))
	out.SummaryItem("Functions", formatCounter(s.Functions))
	if s.Branches.Total > 0 {
		out.SummaryItem("Branches", formatCounter(s.Branches))
	}
}

func formatCounter(c lcov.Counter) string {
	if c.Total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f%% (%d/%d)", c.Percent, c.Covered, c.Total)
}

package testparser

import (
	"regexp"
	"strconv"
)

var (
	// test result: ok. 47 passed; 0 failed; 3 ignored; 0 measured; 0 filtered out; finished in 0.12s
	cargoResultRegex = regexp.MustCompile(`test result: \w+\.\s*(\d+) passed;\s*(\d+) failed;\s*(\d+) ignored`)

	// test parser::tests::empty ... FAILED
	cargoFailedRegex = regexp.MustCompile(`(?m)^test (\S+) \.\.\. FAILED\r?$`)
)

// ParseCargo extracts test counts from `cargo test` output. Each test binary
// (and each doctest run) prints its own result line; all of them are summed.
func ParseCargo(output string) TestCounts {
	counts := TestCounts{}

	matches := cargoResultRegex.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return counts
	}

	for _, match := range matches {
		passed, _ := strconv.Atoi(match[1])
		failed, _ := strconv.Atoi(match[2])
		ignored, _ := strconv.Atoi(match[3])

		counts.Passed += passed
		counts.Failed += failed
		counts.Skipped += ignored
	}

	for _, match := range cargoFailedRegex.FindAllStringSubmatch(output, -1) {
		counts.FailedTests = append(counts.FailedTests, FailedTest{Name: match[1]})
	}

	counts.Total = counts.Passed + counts.Failed + counts.Skipped
	counts.Parsed = true

	return counts
}

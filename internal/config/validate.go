package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a defaulted configuration for semantic errors the schema
// cannot express.
func Validate(cfg *Config) error {
	if err := validateCoverage(cfg.Coverage); err != nil {
		return err
	}
	return validateBuildArgs(cfg.Build)
}

func validateCoverage(c *CoverageConfig) error {
	if err := validateFileName("coverage.profdata", c.Profdata); err != nil {
		return err
	}
	if err := validateFileName("coverage.lcov", c.LCOV); err != nil {
		return err
	}
	if filepath.Clean(c.Directory) == "." {
		return &ValidationError{
			Field:   "coverage.directory",
			Message: "must not be the workspace root (stale profile cleanup would scan it)",
		}
	}
	for i, expr := range c.Ignore {
		if _, err := regexp.Compile(expr); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("coverage.ignore[%d]", i),
				Message: fmt.Sprintf("invalid regular expression: %v", err),
			}
		}
	}
	return nil
}

// validateFileName rejects values that would place a report outside the
// coverage directory.
func validateFileName(field, name string) error {
	if filepath.IsAbs(name) || strings.ContainsAny(name, `/\`) {
		return &ValidationError{
			Field:   field,
			Message: "must be a file name inside the coverage directory",
		}
	}
	if strings.HasSuffix(name, ".profraw") {
		return &ValidationError{
			Field:   field,
			Message: `must not use the ".profraw" extension (removed before each run)`,
		}
	}
	return nil
}

// reservedBuildArgs are set by the pipeline itself.
var reservedBuildArgs = []string{"--no-run", "--message-format", "--target-dir"}

func validateBuildArgs(b *BuildConfig) error {
	for i, arg := range b.Args {
		for _, reserved := range reservedBuildArgs {
			if arg == reserved || strings.HasPrefix(arg, reserved+"=") {
				return &ValidationError{
					Field:   fmt.Sprintf("build.args[%d]", i),
					Message: fmt.Sprintf("%q is managed by xcov and cannot be overridden", reserved),
				}
			}
		}
	}
	return nil
}

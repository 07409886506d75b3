// Package xcov provides public constants for external tools integrating with
// the xcov CLI (CI wrappers, pre-commit hooks).
package xcov

// Exit codes returned by the xcov CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates the pipeline completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (a tool exited non-zero, a report could not be written, etc.).
	ExitFailure = 1

	// ExitConfigError indicates a configuration error (invalid config, schema violation, etc.).
	ExitConfigError = 2

	// ExitEnvError indicates an environment error (toolchain component missing or not installable).
	ExitEnvError = 3
)

// Package errors provides structured error types and exit codes for xcov.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess          = 0 // Success
	ExitRuntimeError     = 1 // Runtime error (command failed, etc.)
	ExitConfigError      = 2 // Configuration error (invalid config, etc.)
	ExitEnvironmentError = 3 // Environment error (toolchain component missing, install failed, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindValidation
	KindEnvironment
	KindIO
	KindCommandFailed
	KindToolNotFound
	KindToolInstall
	KindToolInvocation
)

// String returns a short name for the kind, used in debug logs.
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindValidation:
		return "validation"
	case KindEnvironment:
		return "environment"
	case KindIO:
		return "io"
	case KindCommandFailed:
		return "command_failed"
	case KindToolNotFound:
		return "tool_not_found"
	case KindToolInstall:
		return "tool_install"
	case KindToolInvocation:
		return "tool_invocation"
	default:
		return "runtime"
	}
}

// XcovError is the base error type for xcov.
type XcovError struct {
	Kind    ErrorKind
	Message string
	Tool    string // Pipeline tool label (build, test-run, merge, export, patch) or executable name
	Path    string // Filesystem path for IO errors
	Cause   error  // Underlying error
}

func (e *XcovError) Error() string {
	msg := e.Message
	if e.Tool != "" {
		msg = fmt.Sprintf("[%s] %s", e.Tool, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *XcovError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *XcovError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindEnvironment, KindToolNotFound, KindToolInstall, KindToolInvocation:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *XcovError {
	return &XcovError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Config creates a new configuration error.
func Config(message string) *XcovError {
	return &XcovError{
		Kind:    KindConfig,
		Message: message,
	}
}

// WrapConfig wraps an error that stems from invalid or missing configuration.
func WrapConfig(err error, message string) *XcovError {
	return &XcovError{
		Kind:    KindConfig,
		Message: message,
		Cause:   err,
	}
}

// Environment creates a new environment error.
func Environment(message string) *XcovError {
	return &XcovError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *XcovError {
	return &XcovError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// IO creates a path-qualified filesystem error. op names the failed operation
// (e.g. "create", "read dir").
func IO(op, path string, err error) *XcovError {
	return &XcovError{
		Kind:    KindIO,
		Message: fmt.Sprintf("%s %s", op, path),
		Path:    path,
		Cause:   err,
	}
}

// CommandFailed reports that an external tool exited unsuccessfully.
// tool is the pipeline label ("build", "merge", ...), command the executable.
func CommandFailed(tool, command string, err error) *XcovError {
	return &XcovError{
		Kind:    KindCommandFailed,
		Message: fmt.Sprintf("%s failed", command),
		Tool:    tool,
		Cause:   err,
	}
}

// ToolNotFound reports an executable missing from the toolchain even after installation.
func ToolNotFound(name, root string) *XcovError {
	return &XcovError{
		Kind:    KindToolNotFound,
		Message: fmt.Sprintf("not found under %s", root),
		Tool:    name,
	}
}

// ToolInstall reports a failed installation attempt.
func ToolInstall(name string, err error) *XcovError {
	return &XcovError{
		Kind:    KindToolInstall,
		Message: "installation failed",
		Tool:    name,
		Cause:   err,
	}
}

// ToolInvocation reports a tool that could not be spawned or exited non-zero
// while resolving the toolchain.
func ToolInvocation(name, cmdline string, err error) *XcovError {
	return &XcovError{
		Kind:    KindToolInvocation,
		Message: fmt.Sprintf("%q failed", cmdline),
		Tool:    name,
		Cause:   err,
	}
}

// KindOf returns the kind of the first XcovError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var xe *XcovError
	if stderrors.As(err, &xe) {
		return xe.Kind, true
	}
	return KindRuntime, false
}

// IsKind reports whether err's chain contains an XcovError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsCommandFailed reports whether err is a CommandFailed error for tool.
func IsCommandFailed(err error, tool string) bool {
	var xe *XcovError
	if !stderrors.As(err, &xe) {
		return false
	}
	return xe.Kind == KindCommandFailed && xe.Tool == tool
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var xe *XcovError
	if stderrors.As(err, &xe) {
		return xe.ExitCode()
	}
	return ExitRuntimeError
}

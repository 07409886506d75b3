// Package toolchain locates the LLVM coverage tools shipped with the Rust
// toolchain and installs them when they are missing.
package toolchain

import (
	"strings"
)

// Executable names searched for under the sysroot.
const (
	ProfdataName = "llvm-profdata"
	CovName      = "llvm-cov"
)

// Paths are the resolved tool locations. The zero value is never returned
// with a nil error.
type Paths struct {
	Profdata  string // absolute path to llvm-profdata
	Cov       string // absolute path to llvm-cov
	Demangler string // demangler command passed to llvm-cov --Xdemangler
}

// FirstLine returns s up to (not including) the first '\n' or '\r'.
func FirstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

// retryOnce runs attempt. When it fails, fix runs once and attempt is
// retried exactly once. A failing fix aborts with its own error.
func retryOnce(attempt, fix func() error) error {
	if err := attempt(); err == nil {
		return nil
	}
	if err := fix(); err != nil {
		return err
	}
	return attempt()
}

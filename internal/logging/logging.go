// Package logging builds the diagnostic logger used across xcov.
//
// User-facing progress goes through internal/output; this logger carries
// debug records (spawned command lines, tolerated failures) that are only
// shown with --verbose.
package logging

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugLevel is the logr verbosity used for command tracing.
const DebugLevel = 1

// New returns a logr.Logger writing console-encoded records to w.
// When verbose is false only error records are emitted.
func New(w io.Writer, verbose bool) logr.Logger {
	level := zapcore.ErrorLevel
	if verbose {
		// zapr maps V(n) to zap level -n.
		level = zapcore.Level(-DebugLevel)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)

	return zapr.NewLogger(zap.New(core)).WithName("xcov")
}

// Package command spawns the external tools driven by the coverage pipeline.
package command

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"k8s.io/utils/exec"

	"github.com/AndreyAkinshin/xcov/internal/logging"
)

// Spec describes a single tool invocation.
type Spec struct {
	Name   string
	Args   []string
	Dir    string
	Env    []string // appended to the inherited environment
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs and error messages.
func (s Spec) String() string {
	return Line(s.Name, s.Args...)
}

// Line joins an executable and its arguments.
func Line(name string, args ...string) string {
	parts := append([]string{name}, args...)
	return strings.Join(parts, " ")
}

// Executor runs tools through an exec.Interface. Every call blocks until the
// child exits.
type Executor struct {
	exec exec.Interface
	log  logr.Logger
}

// NewExecutor creates an executor. Pass exec.New() for real processes.
func NewExecutor(e exec.Interface, log logr.Logger) *Executor {
	return &Executor{
		exec: e,
		log:  log,
	}
}

// Run executes the command and waits for it.
// Non-zero exit is returned as-is; callers attach the tool label.
func (e *Executor) Run(ctx context.Context, s Spec) error {
	cmd := e.prepare(ctx, s)
	return cmd.Run()
}

// Output executes the command and returns its stdout. Stderr is passed through
// to s.Stderr.
func (e *Executor) Output(ctx context.Context, s Spec) ([]byte, error) {
	var stdout bytes.Buffer
	s.Stdout = &stdout
	cmd := e.prepare(ctx, s)
	err := cmd.Run()
	return stdout.Bytes(), err
}

// RunWithCapture executes the command, streaming output to s.Stdout/s.Stderr
// while capturing both. Returns the combined output and any execution error.
func (e *Executor) RunWithCapture(ctx context.Context, s Spec) (string, error) {
	var captured bytes.Buffer
	s.Stdout = io.MultiWriter(orDiscard(s.Stdout), &captured)
	s.Stderr = io.MultiWriter(orDiscard(s.Stderr), &captured)
	cmd := e.prepare(ctx, s)
	err := cmd.Run()
	return captured.String(), err
}

func (e *Executor) prepare(ctx context.Context, s Spec) exec.Cmd {
	e.log.V(logging.DebugLevel).Info("running", "cmd", s.String(), "dir", s.Dir, "env", s.Env)

	cmd := e.exec.CommandContext(ctx, s.Name, s.Args...)
	if s.Dir != "" {
		cmd.SetDir(s.Dir)
	}
	if len(s.Env) > 0 {
		cmd.SetEnv(append(os.Environ(), s.Env...))
	}
	cmd.SetStdout(orDiscard(s.Stdout))
	cmd.SetStderr(orDiscard(s.Stderr))
	return cmd
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

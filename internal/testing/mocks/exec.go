// Package mocks provides shared test doubles for xcov packages.
package mocks

import (
	"k8s.io/utils/exec"
	testingexec "k8s.io/utils/exec/testing"
)

// Exec scripts a sequence of external commands. Each Expect call adds one
// command whose single Run performs the given action. Running more commands
// than scripted panics, which makes unexpected invocations fail the test.
type Exec struct {
	testingexec.FakeExec
	Cmds []*testingexec.FakeCmd
}

var _ exec.Interface = &Exec{}

// NewExec creates an empty script.
func NewExec() *Exec {
	return &Exec{}
}

// Expect appends a command that performs action when run.
func (e *Exec) Expect(action testingexec.FakeAction) *Exec {
	fc := &testingexec.FakeCmd{
		RunScript: []testingexec.FakeAction{action},
	}
	e.Cmds = append(e.Cmds, fc)
	e.CommandScript = append(e.CommandScript, func(cmd string, args ...string) exec.Cmd {
		return testingexec.InitFakeCmd(fc, cmd, args...)
	})
	return e
}

// Calls returns the number of commands created so far.
func (e *Exec) Calls() int {
	return e.CommandCalls
}

// Argv returns the full argv (executable first) of the i-th command.
func (e *Exec) Argv(i int) []string {
	return e.Cmds[i].Argv
}

// Env returns the environment set on the i-th command, nil if inherited.
func (e *Exec) Env(i int) []string {
	return e.Cmds[i].Env
}

// Dir returns the working directory of the i-th command, "" if unset.
func (e *Exec) Dir(i int) string {
	dirs := e.Cmds[i].Dirs
	if len(dirs) == 0 {
		return ""
	}
	return dirs[len(dirs)-1]
}

// EnvValue looks up key in the i-th command's environment.
// The last assignment wins, as with os/exec.
func (e *Exec) EnvValue(i int, key string) (string, bool) {
	prefix := key + "="
	var val string
	found := false
	for _, kv := range e.Env(i) {
		if len(kv) >= len(prefix) && kv[:len(prefix)] == prefix {
			val = kv[len(prefix):]
			found = true
		}
	}
	return val, found
}

// Succeed is an action that exits zero without output.
func Succeed() testingexec.FakeAction {
	return func() ([]byte, []byte, error) {
		return nil, nil, nil
	}
}

// Stdout is an action that writes out to the command's stdout and exits zero.
func Stdout(out string) testingexec.FakeAction {
	return func() ([]byte, []byte, error) {
		return []byte(out), nil, nil
	}
}

// Fail is an action that exits with the given status.
func Fail(status int) testingexec.FakeAction {
	return func() ([]byte, []byte, error) {
		return nil, nil, testingexec.FakeExitError{Status: status}
	}
}

// Do is an action that runs fn as the command's side effect and exits
// non-zero if fn returns an error.
func Do(fn func() error) testingexec.FakeAction {
	return func() ([]byte, []byte, error) {
		return nil, nil, fn()
	}
}

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNew_VerboseEmitsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true)

	log.V(DebugLevel).Info("running command", "cmd", "cargo")

	got := buf.String()
	if !strings.Contains(got, "running command") {
		t.Errorf("verbose log = %q, want to contain %q", got, "running command")
	}
	if !strings.Contains(got, "cargo") {
		t.Errorf("verbose log = %q, want to contain key value", got)
	}
}

func TestNew_QuietDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.V(DebugLevel).Info("running command")
	log.Info("plain info")

	if buf.Len() != 0 {
		t.Errorf("non-verbose log = %q, want empty", buf.String())
	}
}

func TestNew_ErrorsAlwaysEmitted(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Error(errors.New("boom"), "stage failed")

	if !strings.Contains(buf.String(), "stage failed") {
		t.Errorf("log = %q, want to contain %q", buf.String(), "stage failed")
	}
}

func TestNew_Enabled(t *testing.T) {
	if New(&bytes.Buffer{}, false).Enabled() {
		t.Error("non-verbose logger has info records enabled")
	}
	verbose := New(&bytes.Buffer{}, true)
	if !verbose.V(DebugLevel).Enabled() {
		t.Error("verbose logger has debug records disabled")
	}
}

// Package cargo decodes the structured output of `cargo --message-format=json`.
package cargo

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
)

// maxLineSize bounds a single JSON message. Compiler diagnostics with long
// rendered spans can exceed bufio's 64KiB default.
const maxLineSize = 64 << 20

// Profile is the build profile attached to a compiler-artifact message.
type Profile struct {
	Test bool `json:"test"`
}

// BuildMessage is one record of cargo's JSON message stream. Only the fields
// needed to locate test binaries are decoded; everything else is ignored.
type BuildMessage struct {
	Reason    string   `json:"reason"`
	Profile   *Profile `json:"profile"`
	Filenames []string `json:"filenames"`
}

// IsTestArtifact reports whether the message describes an artifact built with
// the test profile.
func (m BuildMessage) IsTestArtifact() bool {
	return m.Profile != nil && m.Profile.Test
}

// DecodeMessages reads line-delimited JSON messages from r. Lines are split on
// either '\n' or '\r'. Lines that do not decode as a JSON object are skipped
// and counted: cargo interleaves plain-text diagnostics with JSON, so these are
// expected and not an error.
//
// Keys are matched the encoding/json way, so they are case-insensitive:
// {"PROFILE":{"Test":true}} decodes like {"profile":{"test":true}}. Cargo
// only emits lower-case keys, and the reason field is not checked since only
// compiler-artifact messages carry a profile.
func DecodeMessages(r io.Reader) (msgs []BuildMessage, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(scanAnyLineEnding)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var msg BuildMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			skipped++
			continue
		}
		msgs = append(msgs, msg)
	}

	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}
	return msgs, skipped, nil
}

// TestBinaries flattens the filenames of test-profile messages, preserving
// message order and any duplicates.
func TestBinaries(msgs []BuildMessage) []string {
	var paths []string
	for _, msg := range msgs {
		if !msg.IsTestArtifact() {
			continue
		}
		paths = append(paths, msg.Filenames...)
	}
	return paths
}

// scanAnyLineEnding is a bufio.SplitFunc that splits on '\n' or '\r'.
func scanAnyLineEnding(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

package config

import (
	"encoding/json"
	"reflect"
	"testing"
)

// FuzzUnmarshalConfig tests JSON unmarshaling of Config with arbitrary input.
// Run: go test -fuzz=FuzzUnmarshalConfig -fuzztime=30s ./internal/config
func FuzzUnmarshalConfig(f *testing.F) {
	seeds := []string{
		`{}`,
		``,
		`null`,
		`[]`,
		`"string"`,
		`{"workspace": "."}`,
		`{"coverage": {"directory": "target/coverage", "ignore": ["/gen/"], "summary": true}}`,
		`{"coverage": {"patch": null}}`,
		`{"toolchain": {"rustflags": "-Cinstrument-coverage"}, "build": {"args": ["--tests"]}}`,
		`{"build": {"args": "not-an-array"}}`,
		`{"coverage": {"ignore": ["\\.rs$", "\u0000"]}}`,
		`{"coverage": {"directory": "target/coverage",}}`,
	}
	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		var cfg, cfg2 Config
		err1 := json.Unmarshal(data, &cfg)
		err2 := json.Unmarshal(data, &cfg2)

		if (err1 == nil) != (err2 == nil) {
			t.Errorf("non-deterministic error: first=%v, second=%v", err1, err2)
		}
		if err1 != nil {
			return
		}
		if !reflect.DeepEqual(cfg, cfg2) {
			t.Errorf("non-deterministic result: first=%+v, second=%+v", cfg, cfg2)
		}

		// Defaults and validation must never panic on anything that parses.
		applyDefaults(&cfg)
		_ = Validate(&cfg)
		_ = cfg.Resolve("/root")
	})
}

// FuzzLoadWithWarnings tests LoadWithWarnings with arbitrary JSON input.
// Run: go test -fuzz=FuzzLoadWithWarnings -fuzztime=30s ./internal/config
func FuzzLoadWithWarnings(f *testing.F) {
	seeds := []string{
		`{"coverage": {}}`,
		`{"$schema": "config.schema.json"}`,
		`{"unknown": 1, "coverage": {"also": 2}}`,
		`{"toolchain": null}`,
	}
	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		_, w1, err1 := LoadWithWarnings("fuzz.json", data)
		_, w2, err2 := LoadWithWarnings("fuzz.json", data)

		if (err1 == nil) != (err2 == nil) {
			t.Errorf("non-deterministic error: first=%v, second=%v", err1, err2)
		}
		if !reflect.DeepEqual(w1, w2) {
			t.Errorf("non-deterministic warnings: first=%v, second=%v", w1, w2)
		}
	})
}

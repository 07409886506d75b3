package coverage

import (
	"path/filepath"
	"regexp"
)

// rawProfilePattern names one raw profile per process and binary signature.
const rawProfilePattern = "%p-%m.profraw"

// defaultIgnoreRegexes exclude dependency, standard library and test sources.
var defaultIgnoreRegexes = []string{
	`/\.cargo/registry/`,
	`/rustc/`,
	`/tests\.rs$`,
}

// cargoEnv is the environment of every cargo invocation. profileFile is the
// LLVM_PROFILE_FILE value for the stage.
func (p *Pipeline) cargoEnv(profileFile string) []string {
	flags := p.cfg.Toolchain.RustFlags
	return []string{
		"RUST_BACKTRACE=1",
		"CARGO_INCREMENTAL=0",
		"RUSTFLAGS=" + flags,
		"RUSTDOCFLAGS=" + flags,
		"LLVM_PROFILE_FILE=" + profileFile,
	}
}

// cargoArgs returns the `cargo test` arguments shared by Build and Execute.
func (p *Pipeline) cargoArgs(extra ...string) []string {
	args := []string{"test"}
	args = append(args, p.cfg.Build.Args...)
	args = append(args, "--target-dir", p.paths.CoverageDir)
	return append(args, extra...)
}

// rawProfileTemplate is the LLVM_PROFILE_FILE value while tests run.
func (p *Pipeline) rawProfileTemplate() string {
	return filepath.Join(p.paths.CoverageDir, rawProfilePattern)
}

// ignoreArgs returns the demangler and filename filters shared by every
// llvm-cov invocation.
func (p *Pipeline) ignoreArgs(demangler string) []string {
	args := []string{"--Xdemangler", demangler}

	regexes := append([]string(nil), defaultIgnoreRegexes...)
	regexes = append(regexes, "^"+regexp.QuoteMeta(p.paths.CoverageDir)+"/")
	regexes = append(regexes, p.cfg.Coverage.Ignore...)
	for _, re := range regexes {
		args = append(args, "--ignore-filename-regex", re)
	}
	return args
}

func objectArgs(binaries []string) []string {
	args := make([]string, 0, 2*len(binaries))
	for _, bin := range binaries {
		args = append(args, "--object", bin)
	}
	return args
}

package config

// Default configuration values.
const (
	DefaultCoverageDirectory = "target/coverage"
	DefaultProfdata          = "coverage.profdata"
	DefaultLCOV              = "lcov.info"
	DefaultPatchFile         = "coverage-style.css.patch"
	DefaultSummaryFile       = "summary.yaml"
	DefaultMetricsFile       = "coverage.prom"

	DefaultCompiler  = "rustc"
	DefaultCargo     = "cargo"
	DefaultRustup    = "rustup"
	DefaultComponent = "llvm-tools-preview"
	DefaultDemangler = "rustfilt"
	DefaultPatch     = "patch"
	DefaultRustFlags = "-Cinstrument-coverage -Clink-dead-code"
)

// DefaultBuildArgs selects every test target of every workspace member.
var DefaultBuildArgs = []string{"--workspace", "--tests"}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Workspace == "" {
		cfg.Workspace = "."
	}
	applyCoverageDefaults(cfg)
	applyToolchainDefaults(cfg)
	applyBuildDefaults(cfg)
}

func applyCoverageDefaults(cfg *Config) {
	if cfg.Coverage == nil {
		cfg.Coverage = &CoverageConfig{}
	}
	c := cfg.Coverage
	if c.Directory == "" {
		c.Directory = DefaultCoverageDirectory
	}
	if c.Profdata == "" {
		c.Profdata = DefaultProfdata
	}
	if c.LCOV == "" {
		c.LCOV = DefaultLCOV
	}
	if c.Patch == nil {
		patch := DefaultPatchFile
		c.Patch = &patch
	}
}

func applyToolchainDefaults(cfg *Config) {
	if cfg.Toolchain == nil {
		cfg.Toolchain = &ToolchainConfig{}
	}
	tc := cfg.Toolchain
	setDefault(&tc.Compiler, DefaultCompiler)
	setDefault(&tc.Cargo, DefaultCargo)
	setDefault(&tc.Rustup, DefaultRustup)
	setDefault(&tc.Component, DefaultComponent)
	setDefault(&tc.Demangler, DefaultDemangler)
	setDefault(&tc.Patch, DefaultPatch)
	setDefault(&tc.RustFlags, DefaultRustFlags)
}

func applyBuildDefaults(cfg *Config) {
	if cfg.Build == nil {
		cfg.Build = &BuildConfig{}
	}
	if len(cfg.Build.Args) == 0 {
		cfg.Build.Args = append([]string(nil), DefaultBuildArgs...)
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Package cli provides command-line interface functionality for xcov.
package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/xcov/internal/errors"
	"github.com/AndreyAkinshin/xcov/internal/output"
)

// Version is set at build time.
var Version = "dev"

// wantsHelp returns true if args contain -h or --help.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "-h", "--help", "help":
			printUsage()
			return 0
		case "--version", "version":
			out.Println("xcov %s", Version)
			return 0
		}
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	// The pipeline is the default command.
	cmd := "run"
	var cmdArgs []string
	if len(remaining) > 0 {
		cmd = remaining[0]
		cmdArgs = remaining[1:]
	}

	switch cmd {
	case "run":
		return cmdRun(cmdArgs, opts)
	case "clean":
		return cmdClean(cmdArgs, opts)
	case "summary":
		return cmdSummary(cmdArgs, opts)
	case "config":
		return cmdConfig(cmdArgs, opts)
	case "help":
		printUsage()
		return 0
	case "version":
		out.Println("xcov %s", Version)
		return 0
	default:
		out.ErrorPrefix("unknown command %q", cmd)
		out.Hint("Run 'xcov help' for usage.")
		return errors.ExitConfigError
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	Quiet      bool
	Verbose    bool
	ConfigPath string
	Workspace  string
}

// parseGlobalFlags manually parses global flags from arguments.
//
// Flags may appear anywhere in the argument list, before or after the
// command, which the stdlib flag package does not support.
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{}
	var remaining []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
			i++
		case arg == "--config" || arg == "--workspace":
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
				return nil, nil, fmt.Errorf("%s requires a value", arg)
			}
			setPathFlag(opts, arg, args[i+1])
			i += 2
		case strings.HasPrefix(arg, "--config=") || strings.HasPrefix(arg, "--workspace="):
			flag, value, _ := strings.Cut(arg, "=")
			if value == "" {
				return nil, nil, fmt.Errorf("%s requires a value", flag)
			}
			setPathFlag(opts, flag, value)
			i++
		default:
			remaining = append(remaining, arg)
			i++
		}
	}

	if err := validateGlobalOptions(opts); err != nil {
		return nil, nil, err
	}

	// Apply verbosity settings to the global output writer.
	out.SetQuiet(opts.Quiet)

	return opts, remaining, nil
}

func setPathFlag(opts *GlobalOptions, flag, value string) {
	if flag == "--config" {
		opts.ConfigPath = value
	} else {
		opts.Workspace = value
	}
}

// validateGlobalOptions checks that global options are valid.
func validateGlobalOptions(opts *GlobalOptions) error {
	if opts.Quiet && opts.Verbose {
		return fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}
	return nil
}

// Help text alignment widths for consistent formatting.
const (
	helpCommandWidth = 16
	helpFlagWidth    = 20
)

func printUsage() {
	w := output.New()

	w.HelpTitle("xcov - source-based code coverage for Cargo workspaces")

	w.HelpSection("Usage:")
	w.HelpUsage("xcov [flags] [command]")

	w.HelpSection("Commands:")
	w.HelpCommand("run", "Build, test, merge and export coverage (default)", helpCommandWidth)
	w.HelpCommand("clean", "Remove raw profiles left by earlier runs", helpCommandWidth)
	w.HelpCommand("summary [file]", "Summarize an LCOV file (default: the last report)", helpCommandWidth)
	w.HelpCommand("config validate", "Validate the project configuration", helpCommandWidth)
	w.HelpCommand("version", "Show version information", helpCommandWidth)

	printGlobalFlags(w)

	w.HelpSection("Examples:")
	w.HelpExample("xcov", "Produce lcov.info and the HTML report")
	w.HelpExample("xcov -v run", "Run with command tracing")
	w.HelpExample("xcov --workspace crates/core", "Cover a single workspace")
	w.HelpExample("xcov summary target/coverage/lcov.info", "Print per-file coverage")
	w.Println("")
}

func printGlobalFlags(w *output.Writer) {
	w.HelpSection("Global Flags:")
	w.HelpFlag("-q, --quiet", "Minimal output (errors only)", helpFlagWidth)
	w.HelpFlag("-v, --verbose", "Log every spawned command", helpFlagWidth)
	w.HelpFlag("--config <file>", "Use this config file instead of .xcov/config.json", helpFlagWidth)
	w.HelpFlag("--workspace <dir>", "Cargo workspace to cover", helpFlagWidth)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidth)
	w.HelpFlag("--version", "Show version", helpFlagWidth)
}

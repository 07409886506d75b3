package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/go-logr/logr"
	"k8s.io/utils/exec"

	"github.com/AndreyAkinshin/xcov/internal/command"
	"github.com/AndreyAkinshin/xcov/internal/coverage"
	"github.com/AndreyAkinshin/xcov/internal/errors"
	"github.com/AndreyAkinshin/xcov/internal/lcov"
	"github.com/AndreyAkinshin/xcov/internal/logging"
	"github.com/AndreyAkinshin/xcov/internal/metrics"
	"github.com/AndreyAkinshin/xcov/internal/output"
	"github.com/AndreyAkinshin/xcov/internal/project"
	"github.com/AndreyAkinshin/xcov/internal/toolchain"
)

// out is the shared output writer for CLI commands.
var out = output.New()

// newExec provides the process runner; tests substitute a fake.
var newExec = exec.New

func newLogger(opts *GlobalOptions) logr.Logger {
	return logging.New(out.Stderr(), opts.Verbose)
}

// loadProject loads the project configuration and handles errors uniformly.
// Returns the project and exit code 0 on success, or nil and appropriate exit code on failure.
func loadProject(opts *GlobalOptions) (*project.Project, int) {
	proj, err := project.Load(project.Options{
		ConfigPath: opts.ConfigPath,
		Workspace:  opts.Workspace,
	})
	if err != nil {
		out.ErrorPrefix("%v", err)
		if stderrors.Is(err, project.ErrNoProjectRoot) {
			out.Hint("Run xcov inside a Cargo workspace or pass --workspace.")
		}
		return nil, errors.GetExitCode(err)
	}

	for _, w := range proj.Warnings {
		out.WarningSimple("%s", w)
	}
	return proj, 0
}

// cmdRun runs the full coverage pipeline.
func cmdRun(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printRunUsage()
		return 0
	}
	if len(args) > 0 {
		out.ErrorPrefix("run: unexpected argument %q", args[0])
		return errors.ExitConfigError
	}

	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := newLogger(opts)
	executor := command.NewExecutor(newExec(), log)
	resolver := toolchain.NewResolver(executor, *proj.Config.Toolchain, proj.Paths.Workspace, out, log)
	pipeline := coverage.NewPipeline(executor, proj.Config, proj.Paths, out, log)

	res, err := pipeline.Run(ctx, resolver)
	if res != nil && res.Tests.Parsed {
		printTestSummary(&res.Tests)
	}
	if err != nil {
		out.FinalFailure("Coverage run failed: %v", err)
		return errors.GetExitCode(err)
	}

	summary, err := summarizeReport(proj.Paths.LCOV, proj.Paths.Workspace)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	printCoverageSummary(summary)

	if proj.Config.Coverage.SummaryEnabled() {
		if err := summary.WriteFile(proj.Paths.Summary); err != nil {
			out.ErrorPrefix("%v", errors.IO("write", proj.Paths.Summary, err))
			return errors.ExitRuntimeError
		}
	}

	if proj.Config.Coverage.MetricsEnabled() {
		rec := metrics.NewRecorder()
		rec.RecordRun(res)
		rec.RecordSummary(summary)
		if err := rec.WriteTextfile(proj.Paths.Metrics); err != nil {
			out.ErrorPrefix("%v", err)
			return errors.ExitRuntimeError
		}
	}

	out.FinalSuccess("Coverage report written to %s", proj.Paths.CoverageDir)
	return 0
}

// cmdClean removes stale raw profiles without running anything else.
func cmdClean(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printCleanUsage()
		return 0
	}

	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}

	pipeline := coverage.NewPipeline(nil, proj.Config, proj.Paths, out, newLogger(opts))
	if n := pipeline.CleanRawProfiles(); n == 0 {
		out.Info("No raw profiles in %s", proj.Paths.CoverageDir)
	}
	return 0
}

// cmdSummary prints the coverage summary of an LCOV file.
func cmdSummary(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printSummaryUsage()
		return 0
	}
	if len(args) > 1 {
		out.ErrorPrefix("summary: expected at most one file, got %d", len(args))
		return errors.ExitConfigError
	}

	var path, root string
	if len(args) == 1 {
		path = args[0]
		if cwd, err := os.Getwd(); err == nil {
			root = cwd
		}
	} else {
		proj, exitCode := loadProject(opts)
		if proj == nil {
			return exitCode
		}
		path, root = proj.Paths.LCOV, proj.Paths.Workspace
	}

	summary, err := summarizeReport(path, root)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	rows := make([][]string, 0, len(summary.Files))
	for _, f := range summary.Files {
		rows = append(rows, []string{f.Path, formatCounter(f.Lines), formatCounter(f.Functions)})
	}
	if len(rows) > 0 {
		out.Table([]string{"File", "Lines", "Functions"}, rows)
	}
	printCoverageSummary(summary)
	return 0
}

func summarizeReport(path, root string) (*lcov.Summary, error) {
	report, err := lcov.ParseFile(path)
	if err != nil {
		return nil, errors.IO("read", path, err)
	}
	return lcov.Summarize(report, root), nil
}

// cmdConfig handles configuration utilities.
func cmdConfig(args []string, opts *GlobalOptions) int {
	if len(args) == 0 {
		out.ErrorPrefix("config: subcommand required (validate)")
		return errors.ExitConfigError
	}

	switch args[0] {
	case "validate":
		return cmdConfigValidate(opts)
	case "-h", "--help":
		printConfigUsage()
		return 0
	default:
		out.ErrorPrefix("config: unknown subcommand %q", args[0])
		return errors.ExitConfigError
	}
}

func cmdConfigValidate(opts *GlobalOptions) int {
	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}

	out.ValidationSuccess("Configuration is valid.")
	if proj.ConfigFile != "" {
		out.SummaryItem("Config", proj.ConfigFile)
	} else {
		out.SummaryItem("Config", "defaults (no .xcov/config.json)")
	}
	out.SummaryItem("Workspace", proj.Paths.Workspace)
	out.SummaryItem("Coverage directory", proj.Paths.CoverageDir)
	if len(proj.Warnings) > 0 {
		out.SummaryItem("Warnings", fmt.Sprintf("%d", len(proj.Warnings)))
	}
	return 0
}

func printRunUsage() {
	w := output.New()

	w.HelpTitle("xcov run - produce coverage reports")

	w.HelpSection("Usage:")
	w.HelpUsage("xcov [flags] run")

	w.HelpSection("Stages:")
	w.HelpCommand("toolchain", "Locate llvm-profdata, llvm-cov and rustfilt, installing them if missing", 10)
	w.HelpCommand("build", "cargo test --no-run with coverage instrumentation", 10)
	w.HelpCommand("test", "cargo test, writing one raw profile per process", 10)
	w.HelpCommand("merge", "llvm-profdata merge --sparse", 10)
	w.HelpCommand("export", "lcov.info, HTML report and stylesheet patch", 10)

	printGlobalFlags(w)
	w.Println("")
}

func printCleanUsage() {
	w := output.New()

	w.HelpTitle("xcov clean - remove raw profiles from earlier runs")

	w.HelpSection("Usage:")
	w.HelpUsage("xcov [flags] clean")
	w.Println("")
}

func printSummaryUsage() {
	w := output.New()

	w.HelpTitle("xcov summary - summarize an LCOV tracefile")

	w.HelpSection("Usage:")
	w.HelpUsage("xcov [flags] summary [lcov-file]")

	w.HelpSection("Examples:")
	w.HelpExample("xcov summary", "Summarize the configured lcov.info")
	w.HelpExample("xcov summary other/lcov.info", "Summarize another tracefile")
	w.Println("")
}

// printConfigUsage prints the help text for the config command.
func printConfigUsage() {
	w := output.New()

	w.HelpTitle("xcov config - configuration utilities")

	w.HelpSection("Usage:")
	w.HelpUsage("xcov config <subcommand>")

	w.HelpSection("Subcommands:")
	w.HelpCommand("validate", "Validate the project configuration", 10)

	w.HelpSection("Examples:")
	w.HelpExample("xcov config validate", "Validate project configuration")
	w.Println("")
}

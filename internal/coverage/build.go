package coverage

import (
	"bytes"
	"context"
	"os"

	"github.com/AndreyAkinshin/xcov/internal/cargo"
	"github.com/AndreyAkinshin/xcov/internal/command"
	xerrors "github.com/AndreyAkinshin/xcov/internal/errors"
	"github.com/AndreyAkinshin/xcov/internal/logging"
	"github.com/AndreyAkinshin/xcov/internal/testparser"
)

// Build compiles the instrumented test binaries without running them and
// returns their paths in the order cargo reported them.
func (p *Pipeline) Build(ctx context.Context) ([]string, error) {
	cargoName := p.cfg.Toolchain.Cargo
	stdout, err := p.exec.Output(ctx, command.Spec{
		Name:   cargoName,
		Args:   p.cargoArgs("--no-run", "--message-format=json"),
		Dir:    p.paths.Workspace,
		Env:    p.cargoEnv(os.DevNull),
		Stderr: p.out.Stderr(),
	})
	if err != nil {
		return nil, xerrors.CommandFailed("build", cargoName, err)
	}

	msgs, skipped, err := cargo.DecodeMessages(bytes.NewReader(stdout))
	if err != nil {
		return nil, xerrors.Wrap(err, "read build messages")
	}
	if skipped > 0 {
		p.log.V(logging.DebugLevel).Info("skipped non-JSON build output", "lines", skipped)
	}

	binaries := cargo.TestBinaries(msgs)
	if len(binaries) == 0 {
		p.out.Warning("no test binaries were built")
	}
	p.log.V(logging.DebugLevel).Info("test binaries", "count", len(binaries))
	return binaries, nil
}

// Execute runs the test suite with raw profile output enabled. Output is
// streamed and summarised; profiles written before a failure are kept.
func (p *Pipeline) Execute(ctx context.Context) (testparser.TestCounts, error) {
	cargoName := p.cfg.Toolchain.Cargo
	captured, err := p.exec.RunWithCapture(ctx, command.Spec{
		Name:   cargoName,
		Args:   p.cargoArgs(),
		Dir:    p.paths.Workspace,
		Env:    p.cargoEnv(p.rawProfileTemplate()),
		Stdout: p.out.Stdout(),
		Stderr: p.out.Stderr(),
	})

	counts := testparser.ParseCargo(captured)
	if err != nil {
		return counts, xerrors.CommandFailed("test-run", cargoName, err)
	}
	return counts, nil
}

package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/AndreyAkinshin/xcov/internal/command"
	"github.com/AndreyAkinshin/xcov/internal/config"
	xerrors "github.com/AndreyAkinshin/xcov/internal/errors"
	"github.com/AndreyAkinshin/xcov/internal/logging"
	"github.com/AndreyAkinshin/xcov/internal/output"
)

// Resolver finds the coverage tools, installing the LLVM component and the
// demangler on demand. A Resolver is not safe for concurrent use.
type Resolver struct {
	exec      *command.Executor
	tools     config.ToolchainConfig
	workspace string
	out       *output.Writer
	log       logr.Logger

	installAttempted bool
	installErr       error
}

// NewResolver creates a resolver running tools from workspace.
func NewResolver(exec *command.Executor, tools config.ToolchainConfig, workspace string, out *output.Writer, log logr.Logger) *Resolver {
	return &Resolver{
		exec:      exec,
		tools:     tools,
		workspace: workspace,
		out:       out,
		log:       log.WithName("toolchain"),
	}
}

// Resolve locates every tool the pipeline needs.
func (r *Resolver) Resolve(ctx context.Context) (Paths, error) {
	if err := r.EnsureDemangler(ctx); err != nil {
		return Paths{}, err
	}

	sysroot, err := r.SysRoot(ctx)
	if err != nil {
		return Paths{}, err
	}
	if info, err := os.Stat(sysroot); err != nil || !info.IsDir() {
		return Paths{}, xerrors.Environment(fmt.Sprintf("%s reported sysroot %s, which is not a directory", r.tools.Compiler, sysroot))
	}

	profdata, err := r.FindExecutable(ctx, sysroot, ProfdataName)
	if err != nil {
		return Paths{}, err
	}
	cov, err := r.FindExecutable(ctx, sysroot, CovName)
	if err != nil {
		return Paths{}, err
	}

	return Paths{
		Profdata:  profdata,
		Cov:       cov,
		Demangler: r.tools.Demangler,
	}, nil
}

// SysRoot returns the active toolchain's sysroot as printed by the compiler.
func (r *Resolver) SysRoot(ctx context.Context) (string, error) {
	spec := command.Spec{
		Name:   r.tools.Compiler,
		Args:   []string{"--print", "sysroot"},
		Dir:    r.workspace,
		Stderr: r.out.Stderr(),
	}
	stdout, err := r.exec.Output(ctx, spec)
	if err != nil {
		return "", xerrors.ToolInvocation(r.tools.Compiler, spec.String(), err)
	}

	sysroot := FirstLine(string(stdout))
	if sysroot == "" {
		return "", xerrors.ToolInvocation(r.tools.Compiler, spec.String(), errNotFound)
	}
	r.log.V(logging.DebugLevel).Info("sysroot", "path", sysroot)
	return sysroot, nil
}

// FindExecutable searches root for name. When missing, the LLVM tools
// component is installed (at most once per Resolver) and root is searched
// exactly once more.
func (r *Resolver) FindExecutable(ctx context.Context, root, name string) (string, error) {
	exe := executableName(name)
	var path string

	search := func() error {
		p, err := findFile(root, exe)
		if err != nil {
			return err
		}
		path = p
		return nil
	}

	if err := retryOnce(search, func() error { return r.installComponent(ctx) }); err != nil {
		if xerrors.IsKind(err, xerrors.KindToolInstall) {
			return "", err
		}
		r.log.V(logging.DebugLevel).Info("search failed", "name", exe, "root", root, "error", err.Error())
		return "", xerrors.ToolNotFound(name, root)
	}

	r.log.V(logging.DebugLevel).Info("found", "name", name, "path", path)
	return filepath.Clean(path), nil
}

// installComponent adds the LLVM tools component. Later calls return the
// first outcome without running the installer again.
func (r *Resolver) installComponent(ctx context.Context) error {
	if r.installAttempted {
		return r.installErr
	}
	r.installAttempted = true

	r.out.Action("Installing component '%s'...", r.tools.Component)
	err := r.exec.Run(ctx, command.Spec{
		Name:   r.tools.Rustup,
		Args:   []string{"--quiet", "component", "add", r.tools.Component},
		Dir:    r.workspace,
		Stdout: r.out.Stdout(),
		Stderr: r.out.Stderr(),
	})
	if err != nil {
		r.installErr = xerrors.ToolInstall(r.tools.Component, err)
	}
	return r.installErr
}

// EnsureDemangler checks that the demangler runs, installing it with cargo
// and checking once more when it does not.
func (r *Resolver) EnsureDemangler(ctx context.Context) error {
	var lastErr error
	version := func() error {
		lastErr = r.exec.Run(ctx, command.Spec{
			Name:   r.tools.Demangler,
			Args:   []string{"--version"},
			Stderr: r.out.Stderr(),
		})
		return lastErr
	}
	install := func() error {
		r.out.Action("Installing '%s'...", r.tools.Demangler)
		err := r.exec.Run(ctx, command.Spec{
			Name:   r.tools.Cargo,
			Args:   []string{"--quiet", "install", r.tools.Demangler},
			Dir:    r.workspace,
			Stdout: r.out.Stdout(),
			Stderr: r.out.Stderr(),
		})
		if err != nil {
			return xerrors.ToolInstall(r.tools.Demangler, err)
		}
		return nil
	}

	if err := retryOnce(version, install); err != nil {
		if xerrors.IsKind(err, xerrors.KindToolInstall) {
			return err
		}
		return xerrors.ToolInstall(r.tools.Demangler, lastErr)
	}
	return nil
}

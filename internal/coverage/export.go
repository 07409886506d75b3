package coverage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/xcov/internal/command"
	xerrors "github.com/AndreyAkinshin/xcov/internal/errors"
	"github.com/AndreyAkinshin/xcov/internal/toolchain"
)

// hasData reports whether there is anything for llvm-cov to read.
func hasData(merged MergedProfile, binaries []string) bool {
	return !merged.Empty && len(binaries) > 0
}

// ExportLCOV writes the LCOV report. An empty profile yields an empty file.
func (p *Pipeline) ExportLCOV(ctx context.Context, tools toolchain.Paths, merged MergedProfile, binaries []string) (err error) {
	f, err := os.Create(p.paths.LCOV)
	if err != nil {
		return xerrors.IO("create", p.paths.LCOV, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = xerrors.IO("write", p.paths.LCOV, cerr)
		}
	}()

	if !hasData(merged, binaries) {
		return nil
	}

	args := []string{"export", "--format", "lcov"}
	args = append(args, p.ignoreArgs(tools.Demangler)...)
	args = append(args, "--instr-profile", merged.Path)
	args = append(args, objectArgs(binaries)...)

	err = p.exec.Run(ctx, command.Spec{
		Name:   tools.Cov,
		Args:   args,
		Dir:    p.paths.Workspace,
		Stdout: f,
		Stderr: p.out.Stderr(),
	})
	if err != nil {
		return xerrors.CommandFailed("export", filepath.Base(tools.Cov), err)
	}
	p.out.Action("Wrote %s", p.paths.LCOV)
	return nil
}

// ExportHTML renders the HTML report into the coverage directory and applies
// the stylesheet patch when one is configured.
func (p *Pipeline) ExportHTML(ctx context.Context, tools toolchain.Paths, merged MergedProfile, binaries []string) error {
	if !hasData(merged, binaries) {
		p.out.Warning("skipping HTML report: no coverage data")
		return nil
	}

	args := []string{"show", "--format", "html", "--show-line-counts-or-regions", "--show-instantiations"}
	args = append(args, p.ignoreArgs(tools.Demangler)...)
	args = append(args, "--instr-profile", merged.Path, "--output-dir", p.paths.CoverageDir)
	args = append(args, objectArgs(binaries)...)

	err := p.exec.Run(ctx, command.Spec{
		Name:   tools.Cov,
		Args:   args,
		Dir:    p.paths.Workspace,
		Stdout: p.out.Stdout(),
		Stderr: p.out.Stderr(),
	})
	if err != nil {
		return xerrors.CommandFailed("export", filepath.Base(tools.Cov), err)
	}
	p.out.Action("Wrote %s", filepath.Join(p.paths.CoverageDir, "index.html"))

	if p.paths.PatchFile == "" {
		return nil
	}
	patchName := p.cfg.Toolchain.Patch
	err = p.exec.Run(ctx, command.Spec{
		Name:   patchName,
		Args:   []string{"--input", p.paths.PatchFile},
		Dir:    p.paths.CoverageDir,
		Stdout: p.out.Stdout(),
		Stderr: p.out.Stderr(),
	})
	if err != nil {
		return xerrors.CommandFailed("patch", patchName, err)
	}
	return nil
}

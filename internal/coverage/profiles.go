package coverage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/AndreyAkinshin/xcov/internal/command"
	xerrors "github.com/AndreyAkinshin/xcov/internal/errors"
	"github.com/AndreyAkinshin/xcov/internal/logging"
	"github.com/AndreyAkinshin/xcov/internal/toolchain"
)

// RawProfileExt is the extension of per-process raw profiles.
const RawProfileExt = ".profraw"

// MergedProfile is the indexed profile produced by Merge.
type MergedProfile struct {
	Path   string
	Inputs int  // number of raw profiles merged
	Empty  bool // no raw profiles existed; Path is an empty file
}

// ListRawProfiles returns the full paths of the *.profraw files directly in
// dir, in lexical order.
func ListRawProfiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), RawProfileExt) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// PrepareDir creates the coverage directory.
func (p *Pipeline) PrepareDir() error {
	if err := os.MkdirAll(p.paths.CoverageDir, 0755); err != nil {
		return xerrors.IO("create dir", p.paths.CoverageDir, err)
	}
	return nil
}

// CleanRawProfiles deletes raw profiles left by earlier runs and returns how
// many were removed. Failures are logged and otherwise ignored.
func (p *Pipeline) CleanRawProfiles() int {
	files, err := ListRawProfiles(p.paths.CoverageDir)
	if err != nil {
		if !os.IsNotExist(err) {
			p.log.V(logging.DebugLevel).Info("cannot list stale profiles", "dir", p.paths.CoverageDir, "error", err.Error())
		}
		return 0
	}

	var result *multierror.Error
	removed := 0
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		removed++
	}

	if err := result.ErrorOrNil(); err != nil {
		p.log.V(logging.DebugLevel).Info("ignored stale profile cleanup failures", "failed", len(result.Errors), "error", err.Error())
	}
	if removed > 0 {
		p.out.Action("Removed %d stale raw profile(s)", removed)
	}
	return removed
}

// Merge combines the raw profiles in the coverage directory into one sparse
// indexed profile. Without raw profiles the merger is skipped and an empty
// profile file is written.
func (p *Pipeline) Merge(ctx context.Context, tools toolchain.Paths) (MergedProfile, error) {
	merged := MergedProfile{Path: p.paths.Profdata}

	files, err := ListRawProfiles(p.paths.CoverageDir)
	if err != nil {
		return merged, xerrors.IO("read dir", p.paths.CoverageDir, err)
	}
	merged.Inputs = len(files)

	if len(files) == 0 {
		p.out.Warning("no raw profiles found in %s; the report will be empty", p.paths.CoverageDir)
		if err := os.WriteFile(p.paths.Profdata, nil, 0644); err != nil {
			return merged, xerrors.IO("write", p.paths.Profdata, err)
		}
		merged.Empty = true
		return merged, nil
	}

	args := []string{"merge", "--sparse", "--output", p.paths.Profdata}
	args = append(args, files...)
	err = p.exec.Run(ctx, command.Spec{
		Name:   tools.Profdata,
		Args:   args,
		Dir:    p.paths.Workspace,
		Stdout: p.out.Stdout(),
		Stderr: p.out.Stderr(),
	})
	if err != nil {
		return merged, xerrors.CommandFailed("merge", filepath.Base(tools.Profdata), err)
	}
	return merged, nil
}

// Package coverage drives the instrumented build, test run, profile merge and
// report export for a Cargo workspace.
package coverage

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/xcov/internal/command"
	"github.com/AndreyAkinshin/xcov/internal/config"
	"github.com/AndreyAkinshin/xcov/internal/output"
	"github.com/AndreyAkinshin/xcov/internal/testparser"
	"github.com/AndreyAkinshin/xcov/internal/toolchain"
)

// Stage names, also used as metric labels.
const (
	StageToolchain = "toolchain"
	StageBuild     = "build"
	StageTest      = "test"
	StageMerge     = "merge"
	StageExport    = "export"
)

// Resolver provides the tool locations. *toolchain.Resolver implements it.
type Resolver interface {
	Resolve(ctx context.Context) (toolchain.Paths, error)
}

// Pipeline runs the coverage stages against one workspace. Stages share the
// coverage directory and must run in order.
type Pipeline struct {
	exec  *command.Executor
	cfg   *config.Config
	paths config.Paths
	out   *output.Writer
	log   logr.Logger
}

// StageTiming records how long a stage took.
type StageTiming struct {
	Name     string
	Duration time.Duration
}

// Result collects what a run produced. On failure it holds everything up to
// the failing stage.
type Result struct {
	Tools       toolchain.Paths
	Binaries    []string
	RawProfiles int
	Merged      MergedProfile
	Tests       testparser.TestCounts
	Stages      []StageTiming
}

// NewPipeline creates a pipeline for a defaulted configuration and its
// resolved paths.
func NewPipeline(exec *command.Executor, cfg *config.Config, paths config.Paths, out *output.Writer, log logr.Logger) *Pipeline {
	return &Pipeline{
		exec:  exec,
		cfg:   cfg,
		paths: paths,
		out:   out,
		log:   log.WithName("coverage"),
	}
}

type stage struct {
	name  string
	title string
	run   func(ctx context.Context) error
}

// Run executes every stage in order and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context, resolver Resolver) (*Result, error) {
	res := &Result{}

	stages := []stage{
		{StageToolchain, "prepare toolchain", func(ctx context.Context) error {
			tools, err := resolver.Resolve(ctx)
			res.Tools = tools
			return err
		}},
		{StageBuild, "build test binaries", func(ctx context.Context) error {
			if err := p.PrepareDir(); err != nil {
				return err
			}
			p.CleanRawProfiles()
			bins, err := p.Build(ctx)
			res.Binaries = bins
			return err
		}},
		{StageTest, "run tests", func(ctx context.Context) error {
			counts, err := p.Execute(ctx)
			res.Tests = counts
			return err
		}},
		{StageMerge, "merge profiles", func(ctx context.Context) error {
			merged, err := p.Merge(ctx, res.Tools)
			res.Merged = merged
			res.RawProfiles = merged.Inputs
			return err
		}},
		{StageExport, "export reports", func(ctx context.Context) error {
			if err := p.ExportLCOV(ctx, res.Tools, res.Merged, res.Binaries); err != nil {
				return err
			}
			return p.ExportHTML(ctx, res.Tools, res.Merged, res.Binaries)
		}},
	}

	caser := cases.Title(language.English)
	for i, s := range stages {
		title := caser.String(s.title)
		p.out.StageStart(i+1, len(stages), title)

		start := time.Now()
		err := s.run(ctx)
		elapsed := time.Since(start)
		res.Stages = append(res.Stages, StageTiming{Name: s.name, Duration: elapsed})

		if err != nil {
			p.out.StageFailed(title, err)
			return res, err
		}
		p.out.StageDone(title, elapsed)
	}

	return res, nil
}

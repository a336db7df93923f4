package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoRef-SiteGen/internal/config"
	"github.com/fjglira/GoRef-SiteGen/internal/domain"
	"github.com/fjglira/GoRef-SiteGen/internal/examples"
	"github.com/fjglira/GoRef-SiteGen/internal/metrics"
	"github.com/fjglira/GoRef-SiteGen/internal/parser"
	"github.com/fjglira/GoRef-SiteGen/internal/registry"
	"github.com/fjglira/GoRef-SiteGen/internal/scanner"
	"github.com/fjglira/GoRef-SiteGen/internal/staleness"
	tmpl "github.com/fjglira/GoRef-SiteGen/internal/template"
)

// Options selects what one build does.
type Options struct {
	Selection   staleness.Selection
	RunExamples bool
}

// Report describes a finished build.
type Report struct {
	BuildID   string
	Documents int
	Rendered  []string
	Tutorials []string
	Examples  examples.Result
	Images    examples.ImageReport
}

// Generator is the top-level orchestrator.
type Generator interface {
	Generate(ctx context.Context, cfg *config.Config, opts Options) (*Report, error)
}

// DefaultGenerator implements Generator by wiring all components together.
type DefaultGenerator struct {
	scanner   scanner.Scanner
	reference *parser.ReferenceParser
	tutorials *parser.TutorialParser
	engine    tmpl.TemplateEngine
	recorder  metrics.Recorder
	log       *logrus.Logger
	now       func() time.Time
}

// NewGenerator creates a new DefaultGenerator with all dependencies.
func NewGenerator(
	s scanner.Scanner,
	e tmpl.TemplateEngine,
	rec metrics.Recorder,
	log *logrus.Logger,
) *DefaultGenerator {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &DefaultGenerator{
		scanner:   s,
		reference: parser.NewReferenceParser(log),
		tutorials: parser.NewTutorialParser(log),
		engine:    e,
		recorder:  rec,
		log:       log,
		now:       time.Now,
	}
}

// Generate runs the full pipeline: scan → parse → register → select → run
// examples → render → write. Every source is parsed before anything is
// rendered, so cross-references always see the complete registry.
func (g *DefaultGenerator) Generate(ctx context.Context, cfg *config.Config, opts Options) (*Report, error) {
	start := g.now()
	report := &Report{BuildID: uuid.NewString()}
	log := g.log.WithField("build_id", report.BuildID)

	err := g.generate(ctx, cfg, opts, report, log)

	g.recorder.ObserveBuildDuration(time.Since(start))
	switch {
	case err == nil:
		g.recorder.IncBuildOutcome("success")
	case errors.Is(err, domain.ErrExamplesFailed):
		g.recorder.IncBuildOutcome("examples_failed")
	default:
		g.recorder.IncBuildOutcome("failed")
	}
	if flushErr := g.recorder.Flush(); flushErr != nil {
		log.WithError(flushErr).Warn("failed to write metrics textfile")
	}

	if err != nil {
		return report, err
	}
	log.Infof("Build took %s", time.Since(start).Round(time.Millisecond))
	return report, nil
}

func (g *DefaultGenerator) generate(ctx context.Context, cfg *config.Config, opts Options, report *Report, log *logrus.Entry) error {
	// Step 1: Parse every reference document and tutorial
	var reg *registry.Registry
	var tutorials []tutorialDoc
	if err := g.phase("parse", func() error {
		var err error
		if reg, err = g.buildRegistry(cfg); err != nil {
			return err
		}
		tutorials, err = g.loadTutorials(cfg, opts.Selection.Mode)
		return err
	}); err != nil {
		return err
	}
	report.Documents = reg.Len()

	// Step 2: Decide what to rebuild
	exclusions, err := staleness.CompileExclusions(cfg.Build.Exclude)
	if err != nil {
		return err
	}
	resolver := staleness.NewResolver(reg, cfg.Output.Directory, cfg.Source.Extension, exclusions, g.log)
	toUpdate, err := resolver.Resolve(opts.Selection)
	if err != nil {
		return err
	}
	g.recorder.SetDocuments(reg.Len(), len(toUpdate))
	log.Infof("%d stale file(s) to be translated", len(toUpdate))

	selected := make([]*domain.ReferenceItem, 0, len(toUpdate))
	for _, id := range toUpdate {
		item, err := reg.Lookup(id)
		if err != nil {
			return domain.NewError("render", "", 0, "selected document is missing from the registry", err)
		}
		selected = append(selected, item)
	}

	if !cfg.DryRun {
		if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
			return domain.NewErrorWithSuggestion("write", cfg.Output.Directory, 0,
				"failed to create output directory",
				"check that the parent directory exists and has write permissions",
				err)
		}
	}

	// Step 3: Run examples and reconcile their images
	if err := g.phase("examples", func() error {
		return g.runExamples(ctx, cfg, opts, selected, report, log)
	}); err != nil {
		return err
	}

	// Step 4: Render reference pages and the index
	rc := tmpl.NewRenderContext(reg, g.now().Format(time.ANSIC))
	if err := g.phase("render", func() error {
		return g.renderReference(cfg, rc, resolver, toUpdate, report, log)
	}); err != nil {
		return err
	}

	// Step 5: Tutorials
	if err := g.phase("tutorials", func() error {
		return g.renderTutorials(cfg, rc, opts.Selection.Mode, tutorials, report, log)
	}); err != nil {
		return err
	}

	// Step 6: Static resources
	if !cfg.DryRun && cfg.Static.Directory != "" {
		log.Debug("Copying static resources...")
		if err := g.phase("static", func() error {
			return copyTree(cfg.Static.Directory, cfg.Output.Directory)
		}); err != nil {
			return err
		}
	}

	if !report.Examples.OK() {
		return fmt.Errorf("%w: %d of %d example(s) failed", domain.ErrExamplesFailed,
			len(report.Examples.Failed), len(report.Examples.Failed)+len(report.Examples.Succeeded))
	}
	return nil
}

// buildRegistry scans and parses every reference document. A malformed
// document aborts the build before any page is written.
func (g *DefaultGenerator) buildRegistry(cfg *config.Config) (*registry.Registry, error) {
	if info, err := os.Stat(cfg.Source.ReferenceDir); err != nil || !info.IsDir() {
		return nil, domain.NewErrorWithSuggestion("scan", cfg.Source.ReferenceDir, 0,
			"reference directory not found",
			"run from the repository root or set source.reference_dir in sitegen.yaml",
			err)
	}

	sources, err := g.scanner.Scan(cfg.Source.ReferenceDir, cfg.Source.Extension, cfg.Source.Exclude)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		g.log.Warn("No reference documents found")
	}

	builder := registry.NewBuilder(g.log)
	for _, src := range sources {
		g.log.Debugf("Parsing %s", src.Path)
		content, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, domain.NewError("parse", src.Path, 0, "failed to read file", err)
		}
		item, err := g.reference.Parse(src.Identifier, src.Path, content)
		if err != nil {
			return nil, err
		}
		builder.Register(src.Identifier, item)
	}
	return builder.Build(), nil
}

func (g *DefaultGenerator) runExamples(ctx context.Context, cfg *config.Config, opts Options, selected []*domain.ReferenceItem, report *Report, log *logrus.Entry) error {
	if cfg.DryRun {
		return nil
	}

	if opts.RunExamples {
		scratch := cfg.Examples.ScratchDir
		if scratch == "" {
			dir, err := os.MkdirTemp("", "sitegen-examples-*")
			if err != nil {
				return domain.NewError("examples", "", 0, "failed to create scratch directory", err)
			}
			defer os.RemoveAll(dir)
			scratch = dir
		}

		planner := examples.Planner{
			ScratchDir: scratch,
			ImagesDir:  cfg.ImagesPath(),
			ScriptExt:  cfg.Examples.ScriptExt,
			ImageExt:   cfg.Examples.ImageExt,
		}
		work, err := planner.Plan(selected)
		if err != nil {
			return err
		}
		log.Infof("Running %d example(s) on %d worker(s)", len(work), cfg.Examples.Workers)

		coord := examples.NewCoordinator(cfg.Examples.Command, cfg.Examples.Workers, cfg.Examples.PollDuration(), g.log)
		result, err := coord.Run(ctx, work)
		report.Examples = result
		for range result.Succeeded {
			g.recorder.IncExampleResult(true)
		}
		for range result.Failed {
			g.recorder.IncExampleResult(false)
		}
		if err != nil {
			return err
		}
	}

	discovery := examples.ImageDiscovery{
		OutputDir: cfg.Output.Directory,
		ImagesDir: cfg.Output.ImagesDir,
		ImageExt:  cfg.Examples.ImageExt,
		Log:       g.log,
	}
	images, err := discovery.Discover(selected)
	if err != nil {
		return err
	}
	report.Images = images
	g.recorder.SetBrokenImages(len(images.Broken))
	if len(images.Broken) > 0 {
		log.Warnf("%d example(s) have a missing image", len(images.Broken))
	}
	return nil
}

func (g *DefaultGenerator) renderReference(cfg *config.Config, rc *tmpl.RenderContext, resolver *staleness.Resolver, toUpdate []string, report *Report, log *logrus.Entry) error {
	for _, id := range toUpdate {
		item, err := rc.Registry.Lookup(id)
		if err != nil {
			return domain.NewError("render", "", 0, "selected document is missing from the registry", err)
		}
		target := resolver.OutputPath(id)
		log.Debugf("Rendering %s to %s", item.SourcePath, target)

		page, err := g.engine.Render(tmpl.Reference, tmpl.ReferencePage{RenderContext: rc, Item: item})
		if err != nil {
			return domain.NewError("render", item.SourcePath, 0, "failed to render reference page", err)
		}
		if err := g.write(cfg, target, page, log); err != nil {
			return err
		}
		g.recorder.IncPagesRendered("reference")
		report.Rendered = append(report.Rendered, id)
	}

	indexPath := filepath.Join(cfg.Output.Directory, "index.html")
	if len(toUpdate) == 0 && fileExists(indexPath) {
		return nil
	}
	data := tmpl.IndexPage{RenderContext: rc, Categories: groupByCategory(rc.Registry, resolver.Candidates())}
	page, err := g.engine.Render(tmpl.Index, data)
	if err != nil {
		return err
	}
	if err := g.write(cfg, indexPath, page, log); err != nil {
		return err
	}
	g.recorder.IncPagesRendered("index")
	return nil
}

func (g *DefaultGenerator) write(cfg *config.Config, path string, content []byte, log *logrus.Entry) error {
	if cfg.DryRun {
		log.Infof("[DRY-RUN] Would write: %s", path)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return domain.NewError("write", path, 0, "failed to create directory", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return domain.NewErrorWithSuggestion("write", path, 0,
			"failed to write output file",
			"check disk space and write permissions for the output directory",
			err)
	}
	return nil
}

// phase runs fn and records its duration.
func (g *DefaultGenerator) phase(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	g.recorder.ObservePhaseDuration(name, time.Since(start))
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

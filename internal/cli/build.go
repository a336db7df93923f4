package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fjglira/GoRef-SiteGen/internal/config"
	"github.com/fjglira/GoRef-SiteGen/internal/generator"
	"github.com/fjglira/GoRef-SiteGen/internal/metrics"
	"github.com/fjglira/GoRef-SiteGen/internal/scanner"
	"github.com/fjglira/GoRef-SiteGen/internal/staleness"
	tmpl "github.com/fjglira/GoRef-SiteGen/internal/template"
)

var (
	buildAll      bool
	buildOne      bool
	buildRandom   bool
	buildFiles    []string
	buildExamples bool
	buildWorkers  int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build web pages from reference source",
	Long: `Parses every reference document, then renders the pages that are stale
(missing, or older than their source). Use --all, --one, --random or --files to
choose a different set of pages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sel, err := selectionFromFlags()
		if err != nil {
			return err
		}
		if buildExamples {
			cfg.Examples.Enabled = true
		}
		if buildWorkers > 0 {
			cfg.Examples.Workers = buildWorkers
		}
		if cfg.Examples.Enabled && len(cfg.Examples.Command) == 0 {
			return fmt.Errorf("--examples needs examples.command in %s", cfgFile)
		}

		log.Infof("Building content from %s into %s", cfg.Source.ReferenceDir, cfg.Output.Directory)
		gen, err := newGenerator(cfg, nil)
		if err != nil {
			return err
		}
		_, err = gen.Generate(cmd.Context(), cfg, generator.Options{
			Selection:   sel,
			RunExamples: cfg.Examples.Enabled,
		})
		return err
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildAll, "all", false, "rebuild fresh pages as well as stale ones")
	buildCmd.Flags().BoolVar(&buildOne, "one", false, "build only one page (for testing purposes)")
	buildCmd.Flags().BoolVar(&buildRandom, "random", false, "build one randomly chosen page")
	buildCmd.Flags().StringSliceVar(&buildFiles, "files", nil, "build only these source files (comma separated)")
	buildCmd.Flags().BoolVar(&buildExamples, "examples", false, "run examples and capture their images")
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 0, "number of example worker processes")
	buildCmd.MarkFlagsMutuallyExclusive("all", "one", "random", "files")
	rootCmd.AddCommand(buildCmd)
}

func selectionFromFlags() (staleness.Selection, error) {
	switch {
	case len(buildFiles) > 0:
		return staleness.Selection{Mode: staleness.ModeNames, Names: buildFiles}, nil
	case buildAll:
		return staleness.Selection{Mode: staleness.ModeAll}, nil
	case buildOne:
		return staleness.Selection{Mode: staleness.ModeOne}, nil
	case buildRandom:
		return staleness.Selection{Mode: staleness.ModeRandom}, nil
	default:
		return staleness.Selection{Mode: staleness.ModeFresh}, nil
	}
}

// newGenerator wires all components. rec may be nil, in which case a
// Prometheus recorder is created when metrics.textfile is configured.
func newGenerator(cfg *config.Config, rec metrics.Recorder) (*generator.DefaultGenerator, error) {
	engine, err := tmpl.NewEngine(cfg.Templates.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create template engine: %w", err)
	}
	log.Debugf("Templates: %s", strings.Join(engine.ListTemplates(), ", "))

	if rec == nil && cfg.Metrics.Textfile != "" {
		rec = metrics.NewPrometheusRecorder(nil, cfg.Metrics.Textfile)
	}

	return generator.NewGenerator(scanner.NewScanner(false), engine, rec, log), nil
}

// buildContext is used by commands that outlive a single cobra invocation context.
func buildContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

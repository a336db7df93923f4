package cli

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fjglira/GoRef-SiteGen/internal/generator"
	"github.com/fjglira/GoRef-SiteGen/internal/metrics"
	"github.com/fjglira/GoRef-SiteGen/internal/preview"
	"github.com/fjglira/GoRef-SiteGen/internal/staleness"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"test"},
	Short:   "Preview the site locally",
	Long:    `Builds stale pages, serves the output directory over HTTP and rebuilds whenever a source, template or static file changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Preview.Port = servePort
		}

		rec := metrics.NewPrometheusRecorder(nil, cfg.Metrics.Textfile)
		gen, err := newGenerator(cfg, rec)
		if err != nil {
			return err
		}
		rebuild := func(ctx context.Context, changed []string) error {
			sel := rebuildSelection(cfg.Templates.Directory, changed)
			if sel.Mode == staleness.ModeAll {
				// Templates are parsed once per engine; pick up the edits.
				log.Info("Templates changed; reloading and rebuilding every page")
				reloaded, err := newGenerator(cfg, rec)
				if err != nil {
					return err
				}
				gen = reloaded
			}
			_, err := gen.Generate(ctx, cfg, generator.Options{Selection: sel})
			return err
		}

		ctx := buildContext(cmd)
		if err := rebuild(ctx, nil); err != nil {
			log.WithError(err).Error("initial build failed")
		}

		debounce, _ := time.ParseDuration(cfg.Preview.Debounce)
		srv := &preview.Server{
			Root:     cfg.Output.Directory,
			Host:     cfg.Preview.Host,
			Port:     cfg.Preview.Port,
			Watch:    watchDirs(cfg.Source.ReferenceDir, cfg.Source.TutorialsDir, cfg.Templates.Directory, cfg.Static.Directory),
			Debounce: debounce,
			Rebuild:  rebuild,
			Metrics:  rec.Registry(),
			Log:      log,
		}
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (default: random in 8000-8999)")
	rootCmd.AddCommand(serveCmd)
}

func watchDirs(dirs ...string) []string {
	var out []string
	for _, d := range dirs {
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

// rebuildSelection rebuilds every page when a template changed, since no
// source is newer than its page in that case, and only stale pages otherwise.
func rebuildSelection(templatesDir string, changed []string) staleness.Selection {
	if templatesDir != "" {
		for _, path := range changed {
			rel, err := filepath.Rel(templatesDir, path)
			if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return staleness.Selection{Mode: staleness.ModeAll}
			}
		}
	}
	return staleness.Selection{Mode: staleness.ModeFresh}
}

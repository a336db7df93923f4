package generator

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoRef-SiteGen/internal/config"
	"github.com/fjglira/GoRef-SiteGen/internal/domain"
	"github.com/fjglira/GoRef-SiteGen/internal/scanner"
	"github.com/fjglira/GoRef-SiteGen/internal/staleness"
	tmpl "github.com/fjglira/GoRef-SiteGen/internal/template"
)

const tutorialsOutDir = "tutorials"

// tutorialDoc is a parsed tutorial and the source it came from.
type tutorialDoc struct {
	source   scanner.Source
	tutorial *domain.Tutorial
}

// wantsTutorials reports whether mode builds tutorials: "all" and "fresh"
// builds do, selections aimed at individual reference pages leave them alone.
func wantsTutorials(mode staleness.Mode) bool {
	return mode == staleness.ModeAll || mode == staleness.ModeFresh || mode == ""
}

// loadTutorials parses every tutorial. It runs before anything is written so
// a malformed tutorial aborts the build with no output on disk.
func (g *DefaultGenerator) loadTutorials(cfg *config.Config, mode staleness.Mode) ([]tutorialDoc, error) {
	if !wantsTutorials(mode) || cfg.Source.TutorialsDir == "" {
		return nil, nil
	}
	if info, err := os.Stat(cfg.Source.TutorialsDir); err != nil || !info.IsDir() {
		g.log.Debugf("No tutorials directory at %s", cfg.Source.TutorialsDir)
		return nil, nil
	}

	sources, err := g.scanner.Scan(cfg.Source.TutorialsDir, ".md", nil)
	if err != nil {
		return nil, err
	}

	docs := make([]tutorialDoc, 0, len(sources))
	for _, src := range sources {
		content, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, domain.NewError("parse", src.Path, 0, "failed to read file", err)
		}
		tut, err := g.tutorials.Parse(src.Path, content)
		if err != nil {
			return nil, err
		}
		docs = append(docs, tutorialDoc{source: src, tutorial: tut})
	}
	return docs, nil
}

// renderTutorials writes the stale (or, in "all" mode, every) tutorial page
// and the tutorial index.
func (g *DefaultGenerator) renderTutorials(cfg *config.Config, rc *tmpl.RenderContext, mode staleness.Mode, docs []tutorialDoc, report *Report, log *logrus.Entry) error {
	outDir := filepath.Join(cfg.Output.Directory, tutorialsOutDir)

	all := make([]*domain.Tutorial, 0, len(docs))
	for _, doc := range docs {
		tut := doc.tutorial
		all = append(all, tut)

		target := filepath.Join(outDir, tut.Slug+".html")
		if mode != staleness.ModeAll {
			stale, err := staleness.Stale(doc.source.Path, target)
			if err != nil {
				return err
			}
			if !stale {
				continue
			}
		}

		page, err := g.engine.Render(tmpl.Tutorial, tmpl.TutorialPage{RenderContext: rc, Tutorial: tut})
		if err != nil {
			return domain.NewError("render", doc.source.Path, 0, "failed to render tutorial", err)
		}
		if err := g.write(cfg, target, page, log); err != nil {
			return err
		}
		g.recorder.IncPagesRendered("tutorial")
		report.Tutorials = append(report.Tutorials, tut.Slug)
	}

	indexPath := filepath.Join(outDir, "index.html")
	if len(all) == 0 || (len(report.Tutorials) == 0 && fileExists(indexPath)) {
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Order != all[j].Order {
			return all[i].Order < all[j].Order
		}
		return all[i].Title < all[j].Title
	})
	page, err := g.engine.Render(tmpl.TutorialIndex, tmpl.TutorialIndexPage{RenderContext: rc, Tutorials: all})
	if err != nil {
		return err
	}
	if err := g.write(cfg, indexPath, page, log); err != nil {
		return err
	}
	g.recorder.IncPagesRendered("tutorial_index")
	return nil
}

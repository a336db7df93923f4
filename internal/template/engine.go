package template

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Names of the templates the generator renders.
const (
	Reference     = "reference"
	Index         = "index"
	Tutorial      = "tutorial"
	TutorialIndex = "tutorials"
)

// TemplateEngine renders page data into normalised HTML.
type TemplateEngine interface {
	Render(name string, data any) ([]byte, error)
	ListTemplates() []string
}

// DefaultEngine implements TemplateEngine with html/template.
type DefaultEngine struct {
	templates   map[string]*template.Template
	templateDir string
}

// NewEngine creates a new template engine. Templates built into the binary
// are loaded first; *.tmpl files in templateDir replace them by name. An
// empty or missing templateDir leaves only the built-in templates.
func NewEngine(templateDir string) (*DefaultEngine, error) {
	engine := &DefaultEngine{
		templates:   make(map[string]*template.Template),
		templateDir: templateDir,
	}

	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, domain.NewError("template", "", 0, "failed to open embedded templates", err)
	}
	if err := engine.loadTemplates(sub, "embedded"); err != nil {
		return nil, err
	}

	if templateDir != "" {
		if info, statErr := os.Stat(templateDir); statErr == nil && info.IsDir() {
			if err := engine.loadTemplates(os.DirFS(templateDir), templateDir); err != nil {
				return nil, err
			}
		}
	}

	return engine, nil
}

// loadTemplates reads all .tmpl files from fsys.
func (e *DefaultEngine) loadTemplates(fsys fs.FS, origin string) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return domain.NewError("template", origin, 0, "failed to read template directory", err)
	}

	funcMap := CustomFuncMap()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}
		path := filepath.Join(origin, entry.Name())
		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return domain.NewError("template", path, 0, "failed to read template file", err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return domain.NewError("template", path, 0, "failed to parse template", err)
		}
		e.templates[name] = tmpl
	}
	return nil
}

// Render executes the named template and normalises the resulting HTML.
func (e *DefaultEngine) Render(name string, data any) ([]byte, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return nil, domain.NewError("template", "", 0,
			fmt.Sprintf("template %q not found (available: %s)", name, strings.Join(e.ListTemplates(), ", ")), nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, domain.NewError("template", name, 0, "failed to execute template", err)
	}

	out, err := Normalize(buf.Bytes())
	if err != nil {
		return nil, domain.NewError("template", name, 0, "rendered output is not valid HTML", err)
	}
	return out, nil
}

// ListTemplates returns the names of all loaded templates.
func (e *DefaultEngine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

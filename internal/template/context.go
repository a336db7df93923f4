package template

import (
	"html/template"

	"github.com/antchfx/xmlquery"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
	"github.com/fjglira/GoRef-SiteGen/internal/hypertext"
	"github.com/fjglira/GoRef-SiteGen/internal/registry"
)

// RenderContext is the state shared by every page of one build. Templates
// reach it through the page data, e.g. {{ .Hypertext .Item.Description }}.
type RenderContext struct {
	Today     string
	Registry  *registry.Registry
	Converter *hypertext.Converter
}

// NewRenderContext creates a RenderContext for reg.
func NewRenderContext(reg *registry.Registry, today string) *RenderContext {
	return &RenderContext{
		Today:     today,
		Registry:  reg,
		Converter: hypertext.NewConverter(reg),
	}
}

// Hypertext converts a markup tree to trusted HTML.
func (c *RenderContext) Hypertext(n *xmlquery.Node) (template.HTML, error) {
	s, err := c.Converter.Convert(n)
	if err != nil {
		return "", err
	}
	return template.HTML(s), nil
}

// Link resolves an identifier to its page.
func (c *RenderContext) Link(identifier string) (string, error) {
	return c.Registry.Resolve(identifier)
}

// Name returns the canonical display name of an identifier.
func (c *RenderContext) Name(identifier string) (string, error) {
	return c.Registry.DisplayName(identifier)
}

// ReferencePage is the data for the "reference" template.
type ReferencePage struct {
	*RenderContext
	Item *domain.ReferenceItem
}

// IndexPage is the data for the "index" template.
type IndexPage struct {
	*RenderContext
	Categories []Category
}

// Category groups index entries.
type Category struct {
	Name          string
	Subcategories []Subcategory
}

// Subcategory groups index entries within a category.
type Subcategory struct {
	Name  string
	Items []*domain.ReferenceItem
}

// TutorialPage is the data for the "tutorial" template.
type TutorialPage struct {
	*RenderContext
	Tutorial *domain.Tutorial
}

// TutorialIndexPage is the data for the "tutorials" template.
type TutorialIndexPage struct {
	*RenderContext
	Tutorials []*domain.Tutorial
}

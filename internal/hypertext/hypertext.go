// Package hypertext converts reference markup trees into HTML fragments.
package hypertext

import (
	"html"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

const (
	tagLineBreak = "br"
	tagReference = "ref"
	tagCode      = "c"
)

// renamed maps source tags to the HTML tag they are emitted as.
var renamed = map[string]string{
	tagCode: "kbd",
}

// Names resolves identifiers to link targets and display names.
type Names interface {
	Resolve(identifier string) (string, error)
	DisplayName(identifier string) (string, error)
}

// Converter rewrites markup trees using a read-only name lookup.
type Converter struct {
	names Names
}

// NewConverter creates a Converter resolving references through names.
func NewConverter(names Names) *Converter {
	return &Converter{names: names}
}

// Convert renders the children of root as HTML. The root element's own tag
// is not emitted. A nil root converts to "".
func (c *Converter) Convert(root *xmlquery.Node) (string, error) {
	if root == nil {
		return "", nil
	}
	var b strings.Builder
	if err := c.children(&b, root); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (c *Converter) children(b *strings.Builder, n *xmlquery.Node) error {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.TextNode:
			b.WriteString(html.EscapeString(child.Data))
		case xmlquery.CharDataNode:
			// CDATA carries authored HTML
			b.WriteString(child.Data)
		case xmlquery.ElementNode:
			if err := c.element(b, child); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Converter) element(b *strings.Builder, n *xmlquery.Node) error {
	switch n.Data {
	case tagLineBreak:
		b.WriteString("<br />")
		return nil
	case tagReference:
		return c.reference(b, n)
	}

	tag := n.Data
	if to, ok := renamed[tag]; ok {
		tag = to
	}

	b.WriteByte('<')
	b.WriteString(tag)
	for _, attr := range n.Attr {
		b.WriteByte(' ')
		if attr.Name.Space != "" {
			b.WriteString(attr.Name.Space)
			b.WriteByte(':')
		}
		b.WriteString(attr.Name.Local)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attr.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if err := c.children(b, n); err != nil {
		return err
	}
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
	return nil
}

// reference emits a link labelled with the target's canonical name rather
// than the text written inside the tag.
func (c *Converter) reference(b *strings.Builder, n *xmlquery.Node) error {
	id := domain.RefTarget(n)
	href, err := c.names.Resolve(id)
	if err != nil {
		return err
	}
	label, err := c.names.DisplayName(id)
	if err != nil {
		return err
	}
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(href))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(label))
	b.WriteString("</a>")
	return nil
}

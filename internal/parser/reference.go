package parser

import (
	"bytes"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

// ReferenceParser turns one XML reference document into a ReferenceItem.
type ReferenceParser struct {
	log *logrus.Logger
}

// NewReferenceParser creates a new ReferenceParser.
func NewReferenceParser(log *logrus.Logger) *ReferenceParser {
	return &ReferenceParser{log: log}
}

// Parse parses a reference document. Elements that are absent leave the
// corresponding field nil; elements that are present but hold no text are
// read as "" and reported as a warning.
func (p *ReferenceParser) Parse(identifier, filePath string, content []byte) (*domain.ReferenceItem, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("parse", filePath, 0,
			"malformed reference document",
			"fix the XML so it is well formed; no pages are written while a source is corrupt",
			err)
	}

	root := documentElement(doc)
	if root == nil {
		return nil, domain.NewError("parse", filePath, 0, "reference document has no root element", nil)
	}

	log := p.log.WithField("document", filePath)
	item := &domain.ReferenceItem{
		Identifier: identifier,
		SourcePath: filePath,
	}

	text := func(parent *xmlquery.Node, field string) string {
		n := xmlquery.FindOne(parent, field)
		if n == nil {
			return ""
		}
		return leafText(n, field, log)
	}

	item.Name = text(root, "name")
	item.Type = text(root, "type")
	item.Category = text(root, "category")
	item.Subcategory = text(root, "subcategory")
	item.Usage = text(root, "usage")
	item.Description = xmlquery.FindOne(root, "description")
	item.Syntax = xmlquery.FindOne(root, "syntax")

	for i, ex := range xmlquery.Find(root, "example") {
		code := ""
		if c := xmlquery.FindOne(ex, "code"); c != nil {
			code = formatCode(c.InnerText())
		} else {
			log.Warnf("example %d has no code element", i)
		}
		item.Examples = append(item.Examples, &domain.Example{
			Index:     i,
			Code:      code,
			WantImage: xmlquery.FindOne(ex, "image") != nil,
			Run:       xmlquery.FindOne(ex, "norun") == nil,
		})
	}

	for _, param := range xmlquery.Find(root, "parameter") {
		item.Parameters = append(item.Parameters, domain.Parameter{
			Label:       text(param, "label"),
			Description: xmlquery.FindOne(param, "description"),
		})
	}

	for _, method := range xmlquery.Find(root, "method") {
		item.Methods = append(item.Methods, domain.Method{
			Label:       text(method, "label"),
			Description: xmlquery.FindOne(method, "description"),
			Target:      text(method, "ref"),
		})
	}

	for _, c := range xmlquery.Find(root, "constructor") {
		item.Constructors = append(item.Constructors, leafText(c, "constructor", log))
	}

	item.Related = relatedIdentifiers(root, log)

	return item, nil
}

// relatedIdentifiers accepts both layouts in use: repeated <related>name</related>
// elements, and a single <related> holding <ref> children.
func relatedIdentifiers(root *xmlquery.Node, log *logrus.Entry) []string {
	var related []string
	for _, rel := range xmlquery.Find(root, "related") {
		refs := xmlquery.Find(rel, "ref")
		if len(refs) == 0 {
			related = append(related, leafText(rel, "related", log))
			continue
		}
		for _, ref := range refs {
			related = append(related, domain.RefTarget(ref))
		}
	}
	return related
}

func leafText(n *xmlquery.Node, field string, log *logrus.Entry) string {
	text := strings.TrimSpace(n.InnerText())
	if text == "" {
		log.Warnf("element <%s> has no text content, using empty string", field)
	}
	return text
}

// documentElement returns the first element child of the document node.
func documentElement(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

// formatCode puts example code on its own line so <pre> blocks do not start
// with a blank line or trailing whitespace.
func formatCode(code string) string {
	return "\n" + strings.TrimSpace(code)
}

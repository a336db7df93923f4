package parser

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

var frontMatterDelim = []byte("---")

// frontMatter is the YAML header of a tutorial.
type frontMatter struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Level       string `yaml:"level"`
	Order       int    `yaml:"order"`
	Description string `yaml:"description"`
}

// TutorialParser parses Markdown tutorials with an optional YAML front matter block.
type TutorialParser struct {
	md  goldmark.Markdown
	log *logrus.Logger
}

// NewTutorialParser creates a new TutorialParser.
func NewTutorialParser(log *logrus.Logger) *TutorialParser {
	md := goldmark.New(
		goldmark.WithParserOptions(gmparser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &TutorialParser{md: md, log: log}
}

// Parse renders a tutorial body to HTML and collects its metadata and headings.
func (p *TutorialParser) Parse(filePath string, content []byte) (*domain.Tutorial, error) {
	log := p.log.WithField("document", filePath)
	slug := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	meta, body, err := splitFrontMatter(content)
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("parse", filePath, 0,
			"malformed tutorial front matter",
			"the block between the leading --- lines must be valid YAML",
			err)
	}

	doc := p.md.Parser().Parse(text.NewReader(body))

	tut := &domain.Tutorial{
		Slug:        slug,
		SourcePath:  filePath,
		Title:       meta.Title,
		Author:      meta.Author,
		Level:       meta.Level,
		Order:       meta.Order,
		Description: meta.Description,
	}

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			heading := domain.Heading{Level: h.Level, Text: extractText(h, body)}
			if id, ok := h.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					heading.ID = string(b)
				}
			}
			tut.Headings = append(tut.Headings, heading)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, domain.NewError("parse", filePath, 0, "failed to walk markdown AST", err)
	}

	if tut.Title == "" {
		for _, h := range tut.Headings {
			if h.Level == 1 {
				tut.Title = h.Text
				break
			}
		}
		if tut.Title == "" {
			tut.Title = slug
		}
		log.Warnf("tutorial has no title in its front matter, using %q", tut.Title)
	}

	var buf bytes.Buffer
	if err := p.md.Renderer().Render(&buf, body, doc); err != nil {
		return nil, domain.NewError("parse", filePath, 0, "failed to render markdown", err)
	}
	tut.Body = buf.String()

	return tut, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the body.
func splitFrontMatter(content []byte) (frontMatter, []byte, error) {
	var meta frontMatter

	trimmed := bytes.TrimLeft(content, "\ufeff")
	if !bytes.HasPrefix(trimmed, frontMatterDelim) {
		return meta, content, nil
	}

	rest := trimmed[len(frontMatterDelim):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		// "---" followed by text is a thematic break, not front matter
		return meta, content, nil
	}
	rest = rest[nl+1:]

	end := bytes.Index(rest, append([]byte("\n"), frontMatterDelim...))
	var header, body []byte
	switch {
	case bytes.HasPrefix(rest, frontMatterDelim):
		header, body = nil, rest[len(frontMatterDelim):]
	case end >= 0:
		header, body = rest[:end+1], rest[end+1+len(frontMatterDelim):]
	default:
		// Without a closing delimiter the leading "---" is only front matter
		// if what follows reads as a YAML mapping; otherwise it is a rule.
		var fields map[string]any
		if yaml.Unmarshal(rest, &fields) == nil && len(fields) > 0 {
			return meta, nil, errUnterminatedFrontMatter
		}
		return meta, content, nil
	}

	if err := yaml.Unmarshal(header, &meta); err != nil {
		return meta, nil, err
	}
	return meta, bytes.TrimLeft(body, "\r\n"), nil
}

// extractText gets the text content of a heading node.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		default:
			buf.WriteString(extractText(child, source))
		}
	}
	return buf.String()
}

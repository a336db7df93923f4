package template

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// preserveSpace lists elements whose whitespace is significant.
var preserveSpace = map[string]bool{
	"pre":      true,
	"textarea": true,
	"script":   true,
	"style":    true,
}

// Normalize parses an HTML document, drops text nodes that contain only
// whitespace and serialises the tree again.
func Normalize(doc []byte) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}

	stripWhitespace(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func stripWhitespace(n *html.Node) {
	if n.Type == html.ElementNode && preserveSpace[n.Data] {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			n.RemoveChild(c)
		} else {
			stripWhitespace(c)
		}
		c = next
	}
}

package domain

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// RefTarget returns the identifier a <ref> element points at: its target
// attribute when present, its text otherwise.
func RefTarget(ref *xmlquery.Node) string {
	if target := ref.SelectAttr("target"); target != "" {
		return target
	}
	return strings.TrimSpace(ref.InnerText())
}

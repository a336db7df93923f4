package template

import (
	"html/template"
)

// CustomFuncMap returns the custom template functions available in templates.
// Cross-reference helpers live on RenderContext instead.
func CustomFuncMap() template.FuncMap {
	return template.FuncMap{
		"default": func(fallback, s string) string {
			if s == "" {
				return fallback
			}
			return s
		},
		// unsafeHTML marks already-rendered HTML (tutorial bodies) as trusted.
		"unsafeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}
}

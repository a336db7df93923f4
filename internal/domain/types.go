package domain

import "github.com/antchfx/xmlquery"

// ReferenceItem is one parsed reference page. Nil slices and nodes mean the
// source document did not contain the element at all.
type ReferenceItem struct {
	Identifier   string // flat name: source file name without extension
	SourcePath   string
	Name         string
	Type         string
	Category     string
	Subcategory  string
	Usage        string
	Description  *xmlquery.Node
	Syntax       *xmlquery.Node
	Examples     []*Example
	Parameters   []Parameter
	Methods      []Method
	Constructors []string
	Related      []string // identifiers
}

// DisplayName is the canonical label used when linking to the item.
func (r *ReferenceItem) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Identifier
}

// Example is a code fragment embedded in a reference item.
type Example struct {
	Index     int
	Code      string
	WantImage bool
	Run       bool // false for illustrative examples marked <norun/>

	// Set by image discovery.
	ImagePath string
	Broken    bool
}

// Parameter documents one argument of a function or method.
type Parameter struct {
	Label       string
	Description *xmlquery.Node
}

// Method documents a method of a class and points at its own page.
type Method struct {
	Label       string
	Description *xmlquery.Node
	Target      string
}

// Tutorial is a long-form page written in Markdown.
type Tutorial struct {
	Slug        string
	SourcePath  string
	Title       string
	Author      string
	Level       string
	Order       int
	Description string
	Body        string // rendered HTML
	Headings    []Heading
}

// Heading represents a tutorial heading used for the table of contents.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// WorkItem is one example execution request handed to a worker process.
type WorkItem struct {
	Name       string // "<identifier>_<index>"
	Identifier string
	Index      int
	ScriptPath string
	ImagePath  string
	Source     string
}

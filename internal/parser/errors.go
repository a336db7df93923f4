package parser

import "errors"

var errUnterminatedFrontMatter = errors.New("front matter is missing its closing ---")

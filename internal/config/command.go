package config

import (
	"errors"
	"strings"
)

var errUnterminatedQuote = errors.New("unterminated quote")

// SplitCommand splits a runner command line into arguments. Single and double
// quotes group words; there is no escaping and no variable expansion.
func SplitCommand(s string) ([]string, error) {
	var parts []string
	var current strings.Builder
	inWord := false
	quoteChar := byte(0)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quoteChar != 0:
			if c == quoteChar {
				quoteChar = 0
			} else {
				current.WriteByte(c)
			}
		case c == '"' || c == '\'':
			quoteChar = c
			inWord = true
		case c == ' ' || c == '\t' || c == '\n':
			if inWord {
				parts = append(parts, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteByte(c)
			inWord = true
		}
	}
	if quoteChar != 0 {
		return nil, errUnterminatedQuote
	}
	if inWord {
		parts = append(parts, current.String())
	}
	return parts, nil
}

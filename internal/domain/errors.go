package domain

import (
	"errors"
	"fmt"
)

// ErrExamplesFailed is returned by a build whose pages were all written but
// at least one example failed to run.
var ErrExamplesFailed = errors.New("examples failed")

// SiteGenError is the base error type with context.
type SiteGenError struct {
	Phase      string // "config", "scan", "parse", "resolve", "render", "examples", "write"
	File       string
	LineNumber int
	Message    string
	Suggestion string
	Cause      error
}

func (e *SiteGenError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.LineNumber > 0 {
		s += fmt.Sprintf(":%d", e.LineNumber)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *SiteGenError) Unwrap() error {
	return e.Cause
}

// NewError creates a new SiteGenError.
func NewError(phase, file string, line int, message string, cause error) *SiteGenError {
	return &SiteGenError{
		Phase:      phase,
		File:       file,
		LineNumber: line,
		Message:    message,
		Cause:      cause,
	}
}

// NewErrorWithSuggestion creates a SiteGenError carrying a hint for the user.
func NewErrorWithSuggestion(phase, file string, line int, message, suggestion string, cause error) *SiteGenError {
	err := NewError(phase, file, line, message, cause)
	err.Suggestion = suggestion
	return err
}

// LookupError reports an identifier that is not present in the name registry.
type LookupError struct {
	Identifier string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("unknown reference identifier %q", e.Identifier)
}

// IsLookupError reports whether err (or anything it wraps) is a LookupError.
func IsLookupError(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}

package examples

import (
	"regexp"
	"strings"
)

// EventKind identifies a worker protocol message.
type EventKind int

const (
	EventLog EventKind = iota
	EventRunning
	EventSuccess
	EventFailure
)

func (k EventKind) String() string {
	switch k {
	case EventRunning:
		return "running"
	case EventSuccess:
		return "success"
	case EventFailure:
		return "failure"
	default:
		return "log"
	}
}

// Event is one parsed line of worker output.
type Event struct {
	Kind EventKind
	Name string // work item name for EventRunning
	Line string // raw line
}

var (
	runningLine = regexp.MustCompile(`^:RUNNING:(.+)$`)
	successLine = regexp.MustCompile(`^:SUCCESS:`)
	failureLine = regexp.MustCompile(`^:FAILURE:`)
)

// ParseLine classifies a line of worker stdout. Anything that is not a
// protocol message is a log line and never a result.
func ParseLine(line string) Event {
	line = strings.TrimRight(line, "\r\n")
	switch {
	case runningLine.MatchString(line):
		name := strings.TrimSpace(runningLine.FindStringSubmatch(line)[1])
		return Event{Kind: EventRunning, Name: name, Line: line}
	case successLine.MatchString(line):
		return Event{Kind: EventSuccess, Line: line}
	case failureLine.MatchString(line):
		return Event{Kind: EventFailure, Line: line}
	default:
		return Event{Kind: EventLog, Line: line}
	}
}

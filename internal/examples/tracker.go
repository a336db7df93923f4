package examples

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

// State is the lifecycle state of one work item.
type State int

const (
	StatePending State = iota
	StateRunning
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Tracker follows the work items assigned to a single worker. The protocol
// is sequential, so a result always belongs to the item currently running.
type Tracker struct {
	worker    int
	order     []string
	states    map[string]State
	running   string
	reported  int
	synthetic []string
	log       *logrus.Entry
}

// NewTracker creates a Tracker with every item pending.
func NewTracker(worker int, work []domain.WorkItem, log *logrus.Logger) *Tracker {
	t := &Tracker{
		worker: worker,
		states: make(map[string]State, len(work)),
		log:    log.WithField("worker", worker),
	}
	for _, w := range work {
		t.order = append(t.order, w.Name)
		t.states[w.Name] = StatePending
	}
	return t
}

// Handle applies one protocol event.
func (t *Tracker) Handle(ev Event) {
	switch ev.Kind {
	case EventLog:
		t.log.Debug(ev.Line)

	case EventRunning:
		state, ok := t.states[ev.Name]
		if !ok {
			t.log.Warnf("worker reported unknown work item %q", ev.Name)
			return
		}
		if state != StatePending {
			t.log.Warnf("worker reported %q again (already %s)", ev.Name, state)
			return
		}
		if t.running != "" {
			t.log.Warnf("%q started before %q reported a result, marking it failed", ev.Name, t.running)
			t.states[t.running] = StateFailed
		}
		t.states[ev.Name] = StateRunning
		t.running = ev.Name

	case EventSuccess, EventFailure:
		if t.running == "" {
			t.log.Warnf("worker reported %s with no work item running", ev.Kind)
			return
		}
		t.reported++
		if ev.Kind == EventSuccess {
			t.states[t.running] = StateSucceeded
			t.log.Debugf("%s succeeded", t.running)
		} else {
			t.states[t.running] = StateFailed
			t.log.Warnf("%s failed", t.running)
		}
		t.running = ""
	}
}

// Finish records the worker's exit. The running item and any item that never
// started are failed. A worker that exits cleanly without reporting a single
// result adds one synthetic failure, since that run proves nothing.
func (t *Tracker) Finish(exitErr error) {
	if t.running != "" {
		t.log.Warnf("worker exited while %s was running", t.running)
		t.states[t.running] = StateFailed
		t.running = ""
	}
	for _, name := range t.order {
		if t.states[name] == StatePending {
			t.states[name] = StateFailed
		}
	}
	if exitErr != nil {
		t.log.WithError(exitErr).Warn("worker exited abnormally")
		return
	}
	if t.reported == 0 {
		name := fmt.Sprintf("worker-%d", t.worker)
		t.log.Warn("worker exited cleanly without reporting any result")
		t.synthetic = append(t.synthetic, name)
	}
}

// State returns the state of the named work item.
func (t *Tracker) State(name string) State {
	return t.states[name]
}

// Succeeded returns the names of succeeded work items in assignment order.
func (t *Tracker) Succeeded() []string {
	return t.collect(StateSucceeded)
}

// Failed returns failed work items in assignment order followed by any
// synthetic worker failures.
func (t *Tracker) Failed() []string {
	return append(t.collect(StateFailed), t.synthetic...)
}

func (t *Tracker) collect(state State) []string {
	var out []string
	for _, name := range t.order {
		if t.states[name] == state {
			out = append(out, name)
		}
	}
	return out
}

// Package metrics records build statistics.
package metrics

import "time"

// Recorder receives build observations. Implementations must tolerate being
// called once per build from a single goroutine.
type Recorder interface {
	ObservePhaseDuration(phase string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	SetDocuments(total, stale int)
	IncPagesRendered(kind string)
	IncExampleResult(success bool)
	SetBrokenImages(n int)
	IncBuildOutcome(outcome string) // success|examples_failed|failed
	Flush() error
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) SetDocuments(int, int)                      {}
func (NoopRecorder) IncPagesRendered(string)                    {}
func (NoopRecorder) IncExampleResult(bool)                      {}
func (NoopRecorder) SetBrokenImages(int)                        {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) Flush() error                               { return nil }

// Package pipeline describes the stages of a diff run and the progress events
// the orchestrator publishes while it works through file pairs.
package pipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageWalk lists and pairs the files of both trees.
	StageWalk Stage = "walk"
	// StageParse turns a file into node trees.
	StageParse Stage = "parse"
	// StageCompare runs the differ over paired declarations.
	StageCompare Stage = "compare"
	// StageReport writes the events out.
	StageReport Stage = "report"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusSkipped Status = "skipped" // identical content
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file pair, or for the whole run when File is
// empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	Events  int // diff events produced, set on StatusDone
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: workers publish from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations. It is not safe for concurrent use.
type Timings struct {
	stages map[Stage]time.Duration
}

// Add accumulates dur into stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] += dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}

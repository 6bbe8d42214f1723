package metrics

import "github.com/kilianp07/edfsim/core/model"

// DecisionEvent records the admission test outcome for an arriving task.
type DecisionEvent struct {
	RunID            string
	Tick             uint32
	TaskID           string
	Ratio            float32
	Admitted         bool
	AbsoluteDeadline uint32
}

// CompletionEvent records a task instance reaching zero remaining computation.
type CompletionEvent struct {
	RunID            string
	Tick             uint32
	TaskID           string
	AbsoluteDeadline uint32
	Missed           bool
}

// SimulationSink records the per-tick trace of a run.
type SimulationSink interface {
	RecordTick(line model.TraceLine) error
}

// DecisionRecorder records admission decisions.
type DecisionRecorder interface {
	RecordDecision(ev DecisionEvent) error
}

// CompletionRecorder records task completions.
type CompletionRecorder interface {
	RecordCompletion(ev CompletionEvent) error
}

// Flusher is implemented by sinks that persist their state once a run ends.
type Flusher interface {
	Flush() error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordTick(model.TraceLine) error       { return nil }
func (NopSink) RecordDecision(DecisionEvent) error     { return nil }
func (NopSink) RecordCompletion(CompletionEvent) error { return nil }
func (NopSink) Flush() error                           { return nil }

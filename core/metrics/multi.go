package metrics

import (
	"errors"

	"github.com/kilianp07/edfsim/core/model"
)

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []SimulationSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...SimulationSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTick forwards the line to all sinks, returning the first error encountered.
func (m *MultiSink) RecordTick(line model.TraceLine) error {
	for _, s := range m.Sinks {
		if err := s.RecordTick(line); err != nil {
			return err
		}
	}
	return nil
}

// RecordDecision forwards decisions to sinks that record them.
func (m *MultiSink) RecordDecision(ev DecisionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(DecisionRecorder); ok {
			if err := rec.RecordDecision(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordCompletion forwards completions to sinks that record them.
func (m *MultiSink) RecordCompletion(ev CompletionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(CompletionRecorder); ok {
			if err := rec.RecordCompletion(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes every sink and joins their errors.
func (m *MultiSink) Flush() error {
	var errs []error
	for _, s := range m.Sinks {
		if f, ok := s.(Flusher); ok {
			errs = append(errs, f.Flush())
		}
	}
	return errors.Join(errs...)
}

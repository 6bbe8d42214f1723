package metrics

import (
	"github.com/kilianp07/edfsim/core/logger"
	coremetrics "github.com/kilianp07/edfsim/core/metrics"
	"github.com/kilianp07/edfsim/core/model"
)

// LogSink writes admission decisions and completions to a logger. Rejected
// tasks and missed deadlines are logged at warn level so they stay visible
// with the default configuration.
type LogSink struct {
	log logger.Logger
}

// NewLogSink returns a LogSink writing to l.
func NewLogSink(l logger.Logger) *LogSink {
	return &LogSink{log: l}
}

func (s *LogSink) RecordTick(model.TraceLine) error { return nil }

func (s *LogSink) RecordDecision(ev coremetrics.DecisionEvent) error {
	if !ev.Admitted {
		s.log.Warnf("task %s rejected at tick %d: utilization %s exceeds 1",
			ev.TaskID, ev.Tick, model.FormatVoltage(ev.Ratio))
		return nil
	}
	s.log.Debugw("task admitted", map[string]any{
		"run_id":            ev.RunID,
		"task_id":           ev.TaskID,
		"tick":              ev.Tick,
		"ratio":             ev.Ratio,
		"absolute_deadline": ev.AbsoluteDeadline,
	})
	return nil
}

func (s *LogSink) RecordCompletion(ev coremetrics.CompletionEvent) error {
	if ev.Missed {
		s.log.Warnf("task %s completed at tick %d after its deadline %d", ev.TaskID, ev.Tick, ev.AbsoluteDeadline)
	}
	return nil
}

package edf

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/edfsim/core/model"
)

// TaskSummary follows one admitted task instance through a run.
type TaskSummary struct {
	Seq              uint64 `json:"seq"`
	ID               string `json:"id"`
	Arrival          uint16 `json:"arrival"`
	Computation      uint16 `json:"computation"`
	AbsoluteDeadline uint32 `json:"absolute_deadline"`
	Executed         uint16 `json:"executed"`
	Completed        bool   `json:"completed"`
	// CompletedAt is the tick at whose end the last unit finished.
	CompletedAt uint32 `json:"completed_at,omitempty"`
	Missed      bool   `json:"deadline_missed"`
}

// StateCounts tallies trace lines by processor state.
type StateCounts struct {
	Running int `json:"running"`
	Context int `json:"context"`
	Idle    int `json:"idle"`
}

// Report is the result of a simulation run.
type Report struct {
	RunID     string            `json:"run_id"`
	Horizon   uint32            `json:"horizon"`
	Trace     []model.TraceLine `json:"-"`
	Decisions []Decision        `json:"decisions"`
	Tasks     []TaskSummary     `json:"tasks"`
	Counts    StateCounts       `json:"counts"`
	// MeanVoltage averages the voltage over running ticks.
	MeanVoltage float64 `json:"mean_voltage"`
	// Energy is Σ v² over running ticks, a proxy for dynamic energy.
	Energy float64 `json:"energy"`
}

// Rejected returns the decisions that dropped a task.
func (r *Report) Rejected() []Decision {
	var out []Decision
	for _, d := range r.Decisions {
		if !d.Admitted {
			out = append(out, d)
		}
	}
	return out
}

// Missed returns the tasks that finished after their absolute deadline or
// had not finished by the end of the run although the deadline had passed.
func (r *Report) Missed() []TaskSummary {
	var out []TaskSummary
	for _, t := range r.Tasks {
		if t.Missed {
			out = append(out, t)
		}
	}
	return out
}

func (r *Report) finish() {
	var volts []float64
	for _, l := range r.Trace {
		switch l.State {
		case model.StateRunning:
			r.Counts.Running++
			volts = append(volts, float64(l.Voltage))
		case model.StateContext:
			r.Counts.Context++
		default:
			r.Counts.Idle++
		}
	}
	if len(volts) > 0 {
		r.MeanVoltage = stat.Mean(volts, nil)
		r.Energy = floats.Dot(volts, volts)
	}
	for i := range r.Tasks {
		t := &r.Tasks[i]
		if !t.Completed && t.AbsoluteDeadline <= r.Horizon {
			t.Missed = true
		}
	}
}

package edf

import (
	goerrors "github.com/TudorHulban/go-errors"
	"github.com/google/uuid"

	"github.com/kilianp07/edfsim/core/logger"
	"github.com/kilianp07/edfsim/core/metrics"
	"github.com/kilianp07/edfsim/core/model"
	"github.com/kilianp07/edfsim/core/queue"
	"github.com/kilianp07/edfsim/core/workload"
)

// DefaultHorizon is the number of ticks simulated when none is configured.
const DefaultHorizon uint32 = 200

// Config defines the simulation parameters.
type Config struct {
	// Horizon is the number of simulated ticks, 0 … Horizon-1.
	Horizon uint32
	// InitialContextSwitch charges the very first task its context cost
	// before it runs.
	InitialContextSwitch bool
	// SortSpeeds sorts the speed table ascending before the run so the
	// lowest sufficient speed is selected.
	SortSpeeds bool
	// Window selects the deadline used by the admission test.
	Window WindowMode
}

// Simulator runs workloads through the scheduler.
type Simulator struct {
	cfg  Config
	log  logger.Logger
	sink metrics.SimulationSink
}

// New creates a Simulator. A nil sink records nothing.
func New(cfg Config, log logger.Logger, sink metrics.SimulationSink) (*Simulator, error) {
	if cfg.Horizon == 0 {
		return nil, goerrors.ErrValidation{
			Caller: "edf.New",
			Issue:  goerrors.ErrInvalidInput{InputName: "Horizon"},
		}
	}
	if log == nil {
		return nil, goerrors.ErrValidation{
			Caller: "edf.New",
			Issue:  goerrors.ErrNilInput{InputName: "log"},
		}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Simulator{cfg: cfg, log: log, sink: sink}, nil
}

// Run simulates w for the configured horizon. w is not modified, so the
// same workload can be run repeatedly with identical results.
func (s *Simulator) Run(w workload.Workload) *Report {
	runID := uuid.NewString()
	log := s.log.With(map[string]any{"run_id": runID})

	w = w.Clone()
	speeds := w.Speeds
	if s.cfg.SortSpeeds {
		speeds = speeds.SortedAscending()
	}
	log.Infof("simulation started: %d tasks, %d speeds, horizon %d, %s window",
		w.Arrivals.Len(), len(speeds), s.cfg.Horizon, s.cfg.Window)

	rep := &Report{
		RunID:   runID,
		Horizon: s.cfg.Horizon,
		Trace:   make([]model.TraceLine, 0, s.cfg.Horizon),
	}
	ready := queue.NewReadyQueue()
	st := NewState()

	for tick := uint32(0); tick < s.cfg.Horizon; tick++ {
		var decisions []Decision
		st, decisions = Admit(st, w.Arrivals, ready, speeds, tick, s.cfg.Window)
		for _, d := range decisions {
			s.recordDecision(log, rep, runID, d)
		}

		st = AccountContext(st, ready, s.cfg.InitialContextSwitch)

		var out Outcome
		st, out = Dispatch(st, ready, tick)
		rep.Trace = append(rep.Trace, out.Line)
		if err := s.sink.RecordTick(out.Line); err != nil {
			log.Warnf("record tick %d: %v", tick, err)
		}
		if out.Executed != nil {
			s.recordExecution(log, rep, runID, *out.Executed, out.Completed, tick)
		}
	}
	rep.finish()

	if left := w.Arrivals.Len(); left > 0 {
		log.Infof("%d tasks arrive after the horizon and were not considered", left)
	}
	log.Infof("simulation finished: %d admitted, %d rejected, %d running, %d context, %d idle ticks",
		len(rep.Tasks), len(rep.Rejected()), rep.Counts.Running, rep.Counts.Context, rep.Counts.Idle)
	return rep
}

func (s *Simulator) recordDecision(log logger.Logger, rep *Report, runID string, d Decision) {
	rep.Decisions = append(rep.Decisions, d)
	if d.Admitted {
		rep.Tasks = append(rep.Tasks, TaskSummary{
			Seq:              d.Entry.Seq,
			ID:               d.Entry.Task.ID,
			Arrival:          d.Entry.Arrival,
			Computation:      d.Entry.Task.Computation,
			AbsoluteDeadline: d.Entry.AbsoluteDeadline,
		})
	} else {
		log.Warnf("task %s rejected at tick %d with ratio %s", d.Entry.Task.ID, d.Tick, model.FormatVoltage(d.Ratio))
	}
	rec, ok := s.sink.(metrics.DecisionRecorder)
	if !ok {
		return
	}
	err := rec.RecordDecision(metrics.DecisionEvent{
		RunID:            runID,
		Tick:             d.Tick,
		TaskID:           d.Entry.Task.ID,
		Ratio:            d.Ratio,
		Admitted:         d.Admitted,
		AbsoluteDeadline: d.Entry.AbsoluteDeadline,
	})
	if err != nil {
		log.Warnf("record decision for %s: %v", d.Entry.Task.ID, err)
	}
}

func (s *Simulator) recordExecution(log logger.Logger, rep *Report, runID string, e model.ReadyEntry, completed bool, tick uint32) {
	// Sequences are handed out densely in admission order.
	if e.Seq >= uint64(len(rep.Tasks)) {
		log.Errorf("executed task %s has unknown sequence %d", e.Task.ID, e.Seq)
		return
	}
	t := &rep.Tasks[e.Seq]
	t.Executed++
	if !completed {
		return
	}
	t.Completed = true
	t.CompletedAt = tick + 1
	t.Missed = t.CompletedAt > t.AbsoluteDeadline
	if rec, ok := s.sink.(metrics.CompletionRecorder); ok {
		err := rec.RecordCompletion(metrics.CompletionEvent{
			RunID:            runID,
			Tick:             t.CompletedAt,
			TaskID:           t.ID,
			AbsoluteDeadline: t.AbsoluteDeadline,
			Missed:           t.Missed,
		})
		if err != nil {
			log.Warnf("record completion for %s: %v", t.ID, err)
		}
	}
}

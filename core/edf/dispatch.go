package edf

import (
	"github.com/kilianp07/edfsim/core/model"
	"github.com/kilianp07/edfsim/core/queue"
)

// Outcome describes what a tick did.
type Outcome struct {
	Line model.TraceLine
	// Executed is the entry that consumed a unit this tick, with its
	// remaining computation already decremented.
	Executed *model.ReadyEntry
	// Completed reports that Executed has no computation left.
	Completed bool
}

// Dispatch spends the tick on exactly one of: a pending context-switch tick,
// idling on an empty ready queue, or one computation unit of the head task.
// A task that finishes adds its own context cost to the pending counter and
// leaves the queue; otherwise it is re-queued under its unchanged key.
func Dispatch(st State, ready *queue.ReadyQueue, tick uint32) (State, Outcome) {
	if st.PendingContext > 0 {
		st.PendingContext--
		return st, Outcome{Line: model.TraceLine{Tick: tick, State: model.StateContext}}
	}
	head, ok := ready.Pop()
	if !ok {
		return st, Outcome{Line: model.TraceLine{Tick: tick, State: model.StateIdle}}
	}

	head.Task.Remaining--
	st.LastRemaining = head.Task.Remaining
	out := Outcome{
		Line: model.TraceLine{
			Tick:    tick,
			State:   model.StateRunning,
			TaskID:  head.Task.ID,
			Voltage: st.Voltage,
		},
		Executed: &head,
	}
	if head.Task.Remaining == 0 {
		st.PendingContext += uint32(head.Task.ContextCost)
		out.Completed = true
		return st, out
	}
	ready.Push(head)
	return st, out
}

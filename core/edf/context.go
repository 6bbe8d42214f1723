package edf

import "github.com/kilianp07/edfsim/core/queue"

// AccountContext compares the ready-queue head with the previously recorded
// head and schedules context-switch ticks:
//
//   - first head ever: record it; charge its own cost only if chargeInitial
//   - head changed while the previous task still had work (preemption):
//     charge the previous task's cost plus the new head's cost
//   - head changed after the previous task completed: charge the new head's
//     cost; the completed task's cost was charged by Dispatch
//   - head unchanged: nothing
func AccountContext(st State, ready *queue.ReadyQueue, chargeInitial bool) State {
	head, ok := ready.Peek()
	if !ok {
		return st
	}
	switch {
	case !st.HasLast:
		if chargeInitial {
			st.PendingContext = uint32(head.Task.ContextCost)
		}
	case st.LastTaskID == head.Task.ID:
		return st
	case st.LastRemaining > 0:
		st.PendingContext += uint32(st.LastContext) + uint32(head.Task.ContextCost)
	default:
		st.PendingContext += uint32(head.Task.ContextCost)
	}
	st.HasLast = true
	st.LastTaskID = head.Task.ID
	st.LastContext = head.Task.ContextCost
	st.LastRemaining = head.Task.Remaining
	return st
}
